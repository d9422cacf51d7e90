package service

import (
	"context"
	"fmt"
	"strings"

	"sanogestion/internal/model"
	"sanogestion/internal/repository"
)

type FactureForm struct {
	NumeroFacture string `form:"numero_facture" json:"numero_facture" binding:"required,max=50"`
	DateFacture   Field  `form:"date_facture" json:"date_facture" binding:"required"`
	DateEcheance  Field  `form:"date_echeance" json:"date_echeance"`
	NomClient     string `form:"nom_client" json:"nom_client" binding:"max=100"`
	EmailClient   string `form:"email_client" json:"email_client" binding:"omitempty,email,max=100"`
	PhoneClient   string `form:"phone_client" json:"phone_client" binding:"max=20"`
	AdresseClient string `form:"adresse_client" json:"adresse_client" binding:"max=255"`
	Designation   string `form:"designation" json:"designation"`
	MontantHT     Field  `form:"montant_ht" json:"montant_ht"`
	TVA           Field  `form:"tva" json:"tva"`
	MontantTTC    Field  `form:"montant_ttc" json:"montant_ttc"`
	Statut        string `form:"statut" json:"statut" binding:"omitempty,oneof=brouillon emise payee annulee"`
	Observations  string `form:"observations" json:"observations"`
}

func (f *FactureForm) Apply(e *model.Facture) error {
	if err := validateForm(f); err != nil {
		return err
	}
	out := *e
	var err error
	if out.DateFacture, err = requiredDate("date_facture", f.DateFacture.String()); err != nil {
		return err
	}
	if out.DateEcheance, err = optionalDate("date_echeance", f.DateEcheance.String()); err != nil {
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
	out.Statut = orDefault(f.Statut, model.FactureBrouillon)
	// TTC is derived from HT and TVA when the client leaves it empty
	if !out.MontantTTC.Valid && out.MontantHT.Valid && out.TVA.Valid {
		out.MontantTTC.Decimal = out.MontantHT.Decimal.Add(out.TVA.Decimal)
		out.MontantTTC.Valid = true
	}
	out.NumeroFacture = strings.TrimSpace(f.NumeroFacture)
	out.NomClient = strings.TrimSpace(f.NomClient)
	out.EmailClient = strings.TrimSpace(f.EmailClient)
	out.PhoneClient = strings.TrimSpace(f.PhoneClient)
	out.AdresseClient = strings.TrimSpace(f.AdresseClient)
	out.Designation = f.Designation
	out.Observations = f.Observations
	*e = out
	return nil
}

func FactureFormFrom(e *model.Facture) FactureForm {
	return FactureForm{
		NumeroFacture: e.NumeroFacture,
		DateFacture:   Field(formatDate(&e.DateFacture)),
		DateEcheance:  Field(formatDate(e.DateEcheance)),
		NomClient:     e.NomClient,
		EmailClient:   e.EmailClient,
		PhoneClient:   e.PhoneClient,
		AdresseClient: e.AdresseClient,
		Designation:   e.Designation,
		MontantHT:     Field(decimalString(e.MontantHT)),
		TVA:           Field(decimalString(e.TVA)),
		MontantTTC:    Field(decimalString(e.MontantTTC)),
		Statut:        e.Statut,
		Observations:  e.Observations,
	}
}

func NewFactureService(repo repository.EntityRepository[model.Facture], journal JournalService, txManager repository.TransactionManager) EntityService[model.Facture] {
	return NewEntityService[model.Facture](repo, journal, txManager, EntityConfig[model.Facture]{
		Entity: model.EntityFacture,
		Describe: func(e *model.Facture) string {
			return fmt.Sprintf("facture %s (%s)", e.NumeroFacture, e.NomClient)
		},
		Validate: func(ctx context.Context, e *model.Facture) error {
			taken, err := repo.Exists(ctx, "numero_facture", e.NumeroFacture, e.ID)
			if err != nil {
				return err
			}
			if taken {
				return NewValidationError("numero_facture", "invoice number already exists")
			}
			return nil
		},
	})
}
