package repository

import (
	"sanogestion/internal/model"

	"gorm.io/gorm"
)

var venteSearch = []string{"nom_client", "prenom_client", "email_client", "phone_client", "type_libelle", "items"}

// Per-entity schemas. Column names are fixed here and never taken from requests.
var (
	PersonnelSchema = Schema{
		SearchColumns: []string{"nom", "prenom", "username", "email"},
		Filters:       []string{"departement", "role"},
		Order:         "nom ASC, prenom ASC, id ASC",
		Cascades:      personnelCascades(),
	}
	VenteSchema = Schema{
		SearchColumns: venteSearch,
		Filters:       []string{"type_paiement"},
		Order:         "id DESC",
	}
	MaterielSchema = Schema{
		SearchColumns: []string{"nom_produit", "fournisseur"},
		Order:         "id DESC",
	}
	FinanceSchema = Schema{
		SearchColumns: []string{"libelle", "numero_compte"},
		Order:         "id DESC",
	}
	InitiativeSchema = Schema{
		SearchColumns: []string{"nom", "description"},
		Filters:       []string{"departement", "statut"},
		Order:         "date_debut DESC, id DESC",
	}
	FactureSchema = Schema{
		SearchColumns: []string{"numero_facture", "nom_client", "email_client"},
		Filters:       []string{"statut"},
		Order:         "date_facture DESC, id DESC",
	}
	RapportSchema = Schema{
		SearchColumns: []string{"titre", "nom_fichier"},
		Filters:       []string{"statut", "personnel_id"},
		Order:         "semaine_debut DESC, id DESC",
		Preloads:      []string{"Personnel"},
	}
	ProcesVerbalSchema = Schema{
		SearchColumns: []string{"titre", "lieu", "ordre_du_jour"},
		Filters:       []string{"statut"},
		Order:         "date_reunion DESC, id DESC",
		Preloads:      []string{"Createur", "Participants", "Participants.Personnel"},
		Cascades: []Cascade{
			DeleteWhere(&model.PVParticipant{}, "proces_verbal_id = ?"),
		},
	}
)

// personnelCascades removes every row owned by a Personnel, children before parents.
func personnelCascades() []Cascade {
	return []Cascade{
		DeleteWhere(&model.PVParticipant{}, "personnel_id = ?"),
		func(tx *gorm.DB, id uint) error {
			created := tx.Model(&model.ProcesVerbal{}).Select("id").Where("createur_id = ?", id)
			return tx.Where("proces_verbal_id IN (?)", created).Delete(&model.PVParticipant{}).Error
		},
		DeleteWhere(&model.ProcesVerbal{}, "createur_id = ?"),
		DeleteWhere(&model.Rapport{}, "personnel_id = ?"),
		DeleteWhere(&model.Facture{}, "personnel_id = ?"),
		DeleteWhere(&model.Trading{}, "personnel_id = ?"),
		DeleteWhere(&model.Academy{}, "personnel_id = ?"),
		DeleteWhere(&model.Digital{}, "personnel_id = ?"),
		DeleteWhere(&model.UserActivity{}, "personnel_id = ?"),
		DeleteWhere(&model.Journal{}, "personnel_id = ?"),
	}
}
