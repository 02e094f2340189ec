package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/suplementos-api/internal/application/dto"
)

// Columnas esperadas en el CSV del catálogo (con encabezado):
// sku;nombre;descripcion;costo;precio;punto_reorden;sabores
// sabores es opcional y separa nombres con "|".
var catalogHeader = []string{"sku", "nombre", "descripcion", "costo", "precio", "punto_reorden", "sabores"}

type catalogRow struct {
	Product dto.CreateProductRequest
	Flavors []string
}

// parseCatalog lee el CSV. Las hojas exportadas desde Excel en Windows suelen venir en
// ISO-8859-1; latin1 las convierte a UTF-8 antes de leer.
func parseCatalog(r io.Reader, latin1 bool) ([]catalogRow, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var rows []catalogRow
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		if get("sku") == "" && get("nombre") == "" {
			continue
		}
		row, err := buildRow(get)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, required := range catalogHeader[:2] {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("falta la columna %q (esperadas: %s)", required, strings.Join(catalogHeader, ";"))
		}
	}
	return idx, nil
}

func buildRow(get func(string) string) (catalogRow, error) {
	req := dto.CreateProductRequest{
		SKU:         get("sku"),
		Name:        get("nombre"),
		Description: get("descripcion"),
	}
	if req.SKU == "" || req.Name == "" {
		return catalogRow{}, fmt.Errorf("sku y nombre son obligatorios")
	}
	var err error
	if req.CostPrice, err = parseMoney(get("costo")); err != nil {
		return catalogRow{}, fmt.Errorf("costo: %w", err)
	}
	if req.SellingPrice, err = parseMoney(get("precio")); err != nil {
		return catalogRow{}, fmt.Errorf("precio: %w", err)
	}
	if s := get("punto_reorden"); s != "" {
		if req.ReorderPoint, err = strconv.Atoi(s); err != nil || req.ReorderPoint < 0 {
			return catalogRow{}, fmt.Errorf("punto_reorden inválido %q", s)
		}
	}

	var flavors []string
	for _, f := range strings.Split(get("sabores"), "|") {
		if f = strings.TrimSpace(f); f != "" {
			flavors = append(flavors, f)
		}
	}
	req.HasFlavors = len(flavors) > 0
	return catalogRow{Product: req, Flavors: flavors}, nil
}

// parseMoney acepta "12500", "12500.50" y "12500,50"; vacío es cero.
func parseMoney(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("no puede ser negativo")
	}
	return d, nil
}

// flavorKey compara nombres de sabor sin mayúsculas ni espacios repetidos.
func flavorKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
