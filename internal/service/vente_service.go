package service

import (
	"fmt"
	"strings"

	"sanogestion/internal/model"
	"sanogestion/internal/repository"
)

// VenteForm is the shared payload of the Trading, Academy and Digital ledgers.
type VenteForm struct {
	DateConst        Field  `form:"date_const" json:"date_const"`
	TypeLibelle      string `form:"type_libelle" json:"type_libelle" binding:"max=100"`
	NomClient        string `form:"nom_client" json:"nom_client" binding:"max=100"`
	PrenomClient     string `form:"prenom_client" json:"prenom_client" binding:"max=100"`
	PhoneClient      string `form:"phone_client" json:"phone_client" binding:"max=20"`
	EmailClient      string `form:"email_client" json:"email_client" binding:"omitempty,email,max=100"`
	Items            string `form:"items" json:"items" binding:"max=255"`
	Quantite         Field  `form:"quantite" json:"quantite"`
	PrixUnit         Field  `form:"prix_unit" json:"prix_unit"`
	MontantHT        Field  `form:"montant_ht" json:"montant_ht"`
	TVA              Field  `form:"tva" json:"tva"`
	MontantTTC       Field  `form:"montant_ttc" json:"montant_ttc"`
	ModalitePaiement string `form:"modalite_paiement" json:"modalite_paiement" binding:"max=100"`
	TypePaiement     string `form:"type_paiement" json:"type_paiement" binding:"omitempty,oneof='Virement bancaire' Cheque Especes 'Paiement mobile'"`
	Observations     string `form:"observations" json:"observations"`
}

func (f *VenteForm) applyVente(v *model.Vente) error {
	if err := validateForm(f); err != nil {
		return err
	}
	var err error
	out := *v

	if out.DateConst, err = optionalDate("date_const", f.DateConst.String()); err != nil {
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

	out.TypePaiement = orDefault(f.TypePaiement, model.PaiementEspeces)
	out.TypeLibelle = strings.TrimSpace(f.TypeLibelle)
	out.NomClient = strings.TrimSpace(f.NomClient)
	out.PrenomClient = strings.TrimSpace(f.PrenomClient)
	out.PhoneClient = strings.TrimSpace(f.PhoneClient)
	out.EmailClient = strings.TrimSpace(f.EmailClient)
	out.Items = strings.TrimSpace(f.Items)
	out.ModalitePaiement = strings.TrimSpace(f.ModalitePaiement)
	out.Observations = f.Observations
	*v = out
	return nil
}

func venteFormFrom(v *model.Vente) VenteForm {
	f := VenteForm{
		DateConst:        Field(formatDate(v.DateConst)),
		TypeLibelle:      v.TypeLibelle,
		NomClient:        v.NomClient,
		PrenomClient:     v.PrenomClient,
		PhoneClient:      v.PhoneClient,
		EmailClient:      v.EmailClient,
		Items:            v.Items,
		PrixUnit:         Field(decimalString(v.PrixUnit)),
		MontantHT:        Field(decimalString(v.MontantHT)),
		TVA:              Field(decimalString(v.TVA)),
		MontantTTC:       Field(decimalString(v.MontantTTC)),
		ModalitePaiement: v.ModalitePaiement,
		TypePaiement:     v.TypePaiement,
		Observations:     v.Observations,
	}
	if v.Quantite != nil {
		f.Quantite = Field(fmt.Sprint(*v.Quantite))
	}
	return f
}

type TradingForm struct{ VenteForm }

func (f *TradingForm) Apply(e *model.Trading) error { return f.applyVente(&e.Vente) }

type AcademyForm struct{ VenteForm }

func (f *AcademyForm) Apply(e *model.Academy) error { return f.applyVente(&e.Vente) }

type DigitalForm struct{ VenteForm }

func (f *DigitalForm) Apply(e *model.Digital) error { return f.applyVente(&e.Vente) }

func TradingFormFrom(e *model.Trading) TradingForm { return TradingForm{venteFormFrom(&e.Vente)} }

func AcademyFormFrom(e *model.Academy) AcademyForm { return AcademyForm{venteFormFrom(&e.Vente)} }

func DigitalFormFrom(e *model.Digital) DigitalForm { return DigitalForm{venteFormFrom(&e.Vente)} }

func describeVente(label string, v *model.Vente) string {
	client := strings.TrimSpace(v.PrenomClient + " " + v.NomClient)
	if client == "" {
		client = "sans client"
	}
	return fmt.Sprintf("vente %s #%d (%s)", label, v.ID, client)
}

func NewTradingService(repo repository.EntityRepository[model.Trading], journal JournalService, txManager repository.TransactionManager) EntityService[model.Trading] {
	return NewEntityService[model.Trading](repo, journal, txManager, EntityConfig[model.Trading]{
		Entity:   model.EntityTrading,
		Describe: func(e *model.Trading) string { return describeVente("trading", &e.Vente) },
	})
}

func NewAcademyService(repo repository.EntityRepository[model.Academy], journal JournalService, txManager repository.TransactionManager) EntityService[model.Academy] {
	return NewEntityService[model.Academy](repo, journal, txManager, EntityConfig[model.Academy]{
		Entity:   model.EntityAcademy,
		Describe: func(e *model.Academy) string { return describeVente("academy", &e.Vente) },
	})
}

func NewDigitalService(repo repository.EntityRepository[model.Digital], journal JournalService, txManager repository.TransactionManager) EntityService[model.Digital] {
	return NewEntityService[model.Digital](repo, journal, txManager, EntityConfig[model.Digital]{
		Entity:   model.EntityDigital,
		Describe: func(e *model.Digital) string { return describeVente("digital", &e.Vente) },
	})
}
