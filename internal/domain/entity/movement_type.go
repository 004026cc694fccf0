package entity

import (
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// MovementType es el tipo de un movimiento de stock. El conjunto es cerrado:
// solo existen los seis valores declarados abajo y cada uno tiene un signo fijo.
type MovementType uint8

// Tipos de movimiento de stock. El cero no es un tipo válido.
const (
	MovementEntry MovementType = iota + 1 // entrada de mercancía (compra)
	MovementSale                          // venta
	MovementTransferOut                   // salida por traslado entre tiendas
	MovementTransferIn                    // entrada por traslado entre tiendas
	MovementAdjustmentIn                  // ajuste positivo
	MovementAdjustmentOut                 // ajuste negativo
)

var movementTypeNames = [...]string{
	MovementEntry:         "entry",
	MovementSale:          "sale",
	MovementTransferOut:   "transfer_out",
	MovementTransferIn:    "transfer_in",
	MovementAdjustmentIn:  "adjustment_in",
	MovementAdjustmentOut: "adjustment_out",
}

// MovementTypes devuelve los seis tipos en orden de declaración.
func MovementTypes() []MovementType {
	return []MovementType{
		MovementEntry, MovementSale,
		MovementTransferOut, MovementTransferIn,
		MovementAdjustmentIn, MovementAdjustmentOut,
	}
}

// ParseMovementType convierte el nombre persistido en un MovementType.
func ParseMovementType(s string) (MovementType, error) {
	for _, t := range MovementTypes() {
		if movementTypeNames[t] == s {
			return t, nil
		}
	}
	return 0, domain.Invalid("movement_type", fmt.Sprintf("%q no reconocido", s))
}

// Valid indica si t es uno de los seis tipos reconocidos.
func (t MovementType) Valid() bool {
	return t >= MovementEntry && t <= MovementAdjustmentOut
}

func (t MovementType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("MovementType(%d)", uint8(t))
	}
	return movementTypeNames[t]
}

// Sign devuelve +1 para créditos (entry, transfer_in, adjustment_in),
// -1 para débitos (sale, transfer_out, adjustment_out) y 0 si t no es válido.
func (t MovementType) Sign() int64 {
	switch t {
	case MovementEntry, MovementTransferIn, MovementAdjustmentIn:
		return 1
	case MovementSale, MovementTransferOut, MovementAdjustmentOut:
		return -1
	}
	return 0
}

// IsDebit indica si el movimiento descuenta stock.
func (t MovementType) IsDebit() bool { return t.Sign() < 0 }

func (t MovementType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("tipo de movimiento inválido: %d", uint8(t))
	}
	return []byte(movementTypeNames[t]), nil
}

func (t *MovementType) UnmarshalText(b []byte) error {
	parsed, err := ParseMovementType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ReferenceType identifica el tipo de documento que originó un movimiento.
type ReferenceType string

// Tipos de referencia.
const (
	ReferenceEntry        ReferenceType = "entry"
	ReferenceSale         ReferenceType = "sale"
	ReferenceDistribution ReferenceType = "distribution"
	ReferenceAdjustment   ReferenceType = "adjustment"
)

// Valid indica si r es un tipo de referencia conocido.
func (r ReferenceType) Valid() bool {
	switch r {
	case ReferenceEntry, ReferenceSale, ReferenceDistribution, ReferenceAdjustment:
		return true
	}
	return false
}

// Reference enlaza un movimiento con la cabecera (entrada, venta, distribución o ajuste) que lo causó.
type Reference struct {
	Type ReferenceType `json:"type"`
	ID   string        `json:"id"`
}
