// Package rest implementa los repositorios de entidades contra el API
// remoto de la consola. Cada repo decodifica el envelope de respuesta
// del backend ({data: ...} o {code, message, data}) y entrega registros
// normalizados del dominio.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound marca una entidad ausente al mutar (404 del backend).
var ErrNotFound = errors.New("entity not found")

// envelope es la convención de respuesta del backend.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// unwrapData decodifica el campo data del envelope en out.
func (e envelope) unwrapData(out any) error {
	if len(e.Data) == 0 {
		return errors.New("rest: response envelope missing data")
	}
	if err := json.Unmarshal(e.Data, out); err != nil {
		return fmt.Errorf("rest: decode envelope data: %w", err)
	}
	return nil
}
