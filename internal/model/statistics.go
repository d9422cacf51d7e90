package model

// DepartementCount is the number of personnel in one department.
type DepartementCount struct {
	Departement string `json:"departement"`
	Total       int64  `json:"total"`
}

// DashboardData is the read-only projection served to the dashboard.
type DashboardData struct {
	TotalPersonnel    int64              `json:"total_personnel"`
	ActivePersonnel   int64              `json:"active_personnel"`
	ParDepartement    []DepartementCount `json:"par_departement"`
	Ventes            map[string]int64   `json:"ventes"`
	RapportsEnAttente int64              `json:"rapports_en_attente"`
	ProjetsEnCours    int64              `json:"projets_en_cours"`
}

// PersonnelOption is one entry of the active personnel picker.
type PersonnelOption struct {
	ID          uint   `json:"id"`
	Label       string `json:"label"`
	Username    string `json:"username"`
	Departement string `json:"departement"`
}
