// Package docnum genera números de documento legibles y únicos (GRN-…, INV-…, ST-…).
package docnum

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// New devuelve PREFIX-YYYYMMDDhhmmssNNNNNNNNN-xxxxxxxx: fecha UTC con nanosegundos y 4 bytes aleatorios.
// La unicidad final la garantiza la restricción UNIQUE de cada tabla.
func New(prefix string, now time.Time) string {
	now = now.UTC()
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// sin aleatoriedad queda solo el sufijo temporal
		return fmt.Sprintf("%s-%s%09d", strings.ToUpper(prefix), now.Format("20060102150405"), now.Nanosecond())
	}
	return fmt.Sprintf("%s-%s%09d-%s",
		strings.ToUpper(prefix), now.Format("20060102150405"), now.Nanosecond(), hex.EncodeToString(buf[:]))
}

// Prefijos por tipo de documento.
const (
	PrefixGRN      = "GRN"
	PrefixInvoice  = "INV"
	PrefixTransfer = "ST"
	PrefixVoid     = "VOID"
)
