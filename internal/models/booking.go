package models

import "time"

// ContainerType is the container size of a booking. It is informational only.
type ContainerType string

const (
	Container20 ContainerType = "20pieds"
	Container40 ContainerType = "40pieds"
)

// ContainerTypes lists the accepted container sizes in display order.
var ContainerTypes = []ContainerType{Container20, Container40}

func (c ContainerType) Valid() bool {
	return c == Container20 || c == Container40
}

// ProductType selects which handling fees apply to a booking.
type ProductType string

const (
	ProductSemiFini        ProductType = "semi_fini"
	ProductMatierePremiere ProductType = "matiere_premiere"
)

// ProductTypes lists the accepted product categories in display order.
var ProductTypes = []ProductType{ProductSemiFini, ProductMatierePremiere}

func (p ProductType) Valid() bool {
	return p == ProductSemiFini || p == ProductMatierePremiere
}

// Manutention groups the four handling fee components of a booking.
// They are per-booking amounts, not per-container.
type Manutention struct {
	Facture   float64 `gorm:"column:facture;not null;default:0" json:"facture" validate:"gte=0"`
	DFU       float64 `gorm:"column:dfu;not null;default:0" json:"dfu" validate:"gte=0"`
	Honoraire float64 `gorm:"column:honoraire;not null;default:0" json:"honoraire" validate:"gte=0"`
	Caution   float64 `gorm:"column:caution;not null;default:0" json:"caution" validate:"gte=0"`
}

// Booking is a shipping booking. FraisTransport and FauxFrais are unit
// costs multiplied by NombreTC.
type Booking struct {
	Record
	Numero         string        `gorm:"size:100;not null;index" json:"numero" validate:"required"`
	Date           time.Time     `gorm:"not null;index" json:"date"`
	TypeContenaire ContainerType `gorm:"size:20;not null" json:"type_contenaire" validate:"required,oneof=20pieds 40pieds"`
	TypeProduit    ProductType   `gorm:"size:30;not null" json:"type_produit" validate:"required,oneof=semi_fini matiere_premiere"`
	NombreTC       int           `gorm:"column:nombre_tc;not null;default:0" json:"nombre_tc" validate:"gte=0"`
	FraisTransport float64       `gorm:"not null;default:0" json:"frais_transport" validate:"gte=0"`
	FauxFrais      float64       `gorm:"not null;default:0" json:"faux_frais" validate:"gte=0"`
	Manutention    Manutention   `gorm:"embedded;embeddedPrefix:manutention_" json:"manutention"`
}
