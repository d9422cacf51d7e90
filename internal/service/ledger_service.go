package service

import (
	"fmt"
	"strings"

	"sanogestion/internal/model"
	"sanogestion/internal/repository"
)

type MaterielForm struct {
	NomProduit    string `form:"nom_produit" json:"nom_produit" binding:"required,max=100"`
	Fournisseur   string `form:"fournisseur" json:"fournisseur" binding:"max=100"`
	DateSortie    Field  `form:"date_sortie" json:"date_sortie"`
	DateReception Field  `form:"date_reception" json:"date_reception"`
	Quantite      Field  `form:"quantite" json:"quantite"`
	PrixUnit      Field  `form:"prix_unit" json:"prix_unit"`
	MontantHT     Field  `form:"montant_ht" json:"montant_ht"`
	TVA           Field  `form:"tva" json:"tva"`
	MontantTTC    Field  `form:"montant_ttc" json:"montant_ttc"`
	Observations  string `form:"observations" json:"observations"`
}

func (f *MaterielForm) Apply(m *model.Materiel) error {
	if err := validateForm(f); err != nil {
		return err
	}
	out := *m
	var err error
	if out.DateSortie, err = optionalDate("date_sortie", f.DateSortie.String()); err != nil {
		return err
	}
	if out.DateReception, err = optionalDate("date_reception", f.DateReception.String()); err != nil {
		return err
	}
	if out.Quantite, err = optionalInt("quantite", f.Quantite.String()); err != nil {
		return err
	}
	if out.PrixUnit, err = optionalDecimal("prix_unit", f.PrixUnit.String()); err != nil {
		return err
	}
	if out.MontantHT, err = optionalDecimal("montant_ht", f.MontantHT.String()); err != nil {
		return err
	}
	if out.TVA, err = optionalDecimal("tva", f.TVA.String()); err != nil {
		return err
	}
	if out.MontantTTC, err = optionalDecimal("montant_ttc", f.MontantTTC.String()); err != nil {
		return err
	}
	out.NomProduit = strings.TrimSpace(f.NomProduit)
	out.Fournisseur = strings.TrimSpace(f.Fournisseur)
	out.Observations = f.Observations
	*m = out
	return nil
}

func MaterielFormFrom(m *model.Materiel) MaterielForm {
	f := MaterielForm{
		NomProduit:    m.NomProduit,
		Fournisseur:   m.Fournisseur,
		DateSortie:    Field(formatDate(m.DateSortie)),
		DateReception: Field(formatDate(m.DateReception)),
		PrixUnit:      Field(decimalString(m.PrixUnit)),
		MontantHT:     Field(decimalString(m.MontantHT)),
		TVA:           Field(decimalString(m.TVA)),
		MontantTTC:    Field(decimalString(m.MontantTTC)),
		Observations:  m.Observations,
	}
	if m.Quantite != nil {
		f.Quantite = Field(fmt.Sprint(*m.Quantite))
	}
	return f
}

type FinanceForm struct {
	Date         Field  `form:"date" json:"date"`
	Libelle      string `form:"libelle" json:"libelle" binding:"max=255"`
	NumeroCompte string `form:"numero_compte" json:"numero_compte" binding:"max=50"`
	Credit       Field  `form:"credit" json:"credit"`
	Debit        Field  `form:"debit" json:"debit"`
	MontantHT    Field  `form:"montant_ht" json:"montant_ht"`
	TVA          Field  `form:"tva" json:"tva"`
	MontantTTC   Field  `form:"montant_ttc" json:"montant_ttc"`
	Observations string `form:"observations" json:"observations"`
}

func (f *FinanceForm) Apply(e *model.Finance) error {
	if err := validateForm(f); err != nil {
		return err
	}
	out := *e
	var err error
	if out.Date, err = optionalDate("date", f.Date.String()); err != nil {
		return err
	}
	if out.Credit, err = optionalDecimal("credit", f.Credit.String()); err != nil {
		return err
	}
	if out.Debit, err = optionalDecimal("debit", f.Debit.String()); err != nil {
		return err
	}
	if out.MontantHT, err = optionalDecimal("montant_ht", f.MontantHT.String()); err != nil {
		return err
	}
	if out.TVA, err = optionalDecimal("tva", f.TVA.String()); err != nil {
		return err
	}
	if out.MontantTTC, err = optionalDecimal("montant_ttc", f.MontantTTC.String()); err != nil {
		return err
	}
	out.Libelle = strings.TrimSpace(f.Libelle)
	out.NumeroCompte = strings.TrimSpace(f.NumeroCompte)
	out.Observations = f.Observations
	*e = out
	return nil
}

func FinanceFormFrom(e *model.Finance) FinanceForm {
	return FinanceForm{
		Date:         Field(formatDate(e.Date)),
		Libelle:      e.Libelle,
		NumeroCompte: e.NumeroCompte,
		Credit:       Field(decimalString(e.Credit)),
		Debit:        Field(decimalString(e.Debit)),
		MontantHT:    Field(decimalString(e.MontantHT)),
		TVA:          Field(decimalString(e.TVA)),
		MontantTTC:   Field(decimalString(e.MontantTTC)),
		Observations: e.Observations,
	}
}

func NewMaterielService(repo repository.EntityRepository[model.Materiel], journal JournalService, txManager repository.TransactionManager) EntityService[model.Materiel] {
	return NewEntityService[model.Materiel](repo, journal, txManager, EntityConfig[model.Materiel]{
		Entity: model.EntityMateriel,
		Describe: func(m *model.Materiel) string {
			return fmt.Sprintf("matériel #%d %s", m.ID, m.NomProduit)
		},
	})
}

func NewFinanceService(repo repository.EntityRepository[model.Finance], journal JournalService, txManager repository.TransactionManager) EntityService[model.Finance] {
	return NewEntityService[model.Finance](repo, journal, txManager, EntityConfig[model.Finance]{
		Entity: model.EntityFinance,
		Describe: func(e *model.Finance) string {
			return fmt.Sprintf("écriture #%d %s", e.ID, e.Libelle)
		},
	})
}
