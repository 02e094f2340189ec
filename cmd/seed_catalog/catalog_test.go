package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestParseCatalog_UTF8(t *testing.T) {
	in := "sku;nombre;descripcion;costo;precio;punto_reorden;sabores\n" +
		"WHEY-1;Whey Gold;Proteína;80000;120000,50;5;Chocolate|Vainilla\n" +
		";;;;;;\n" +
		"CREA-1;Creatina;;40000;65000;;\n"

	rows, err := parseCatalog(strings.NewReader(in), false)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "WHEY-1", rows[0].Product.SKU)
	assert.Equal(t, "Proteína", rows[0].Product.Description)
	assert.True(t, decimal.RequireFromString("120000.50").Equal(rows[0].Product.SellingPrice))
	assert.Equal(t, 5, rows[0].Product.ReorderPoint)
	assert.True(t, rows[0].Product.HasFlavors)
	assert.Equal(t, []string{"Chocolate", "Vainilla"}, rows[0].Flavors)

	assert.False(t, rows[1].Product.HasFlavors)
	assert.Equal(t, 0, rows[1].Product.ReorderPoint)
}

func TestParseCatalog_Latin1(t *testing.T) {
	utf := "sku;nombre\nBCAA-1;Aminoácidos Piña\n"
	encoded, err := charmap.ISO8859_1.NewEncoder().String(utf)
	require.NoError(t, err)

	rows, err := parseCatalog(bytes.NewBufferString(encoded), true)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Aminoácidos Piña", rows[0].Product.Name)
}

func TestParseCatalog_Errores(t *testing.T) {
	_, err := parseCatalog(strings.NewReader("codigo;nombre\nX;Y\n"), false)
	assert.ErrorContains(t, err, "sku")

	_, err = parseCatalog(strings.NewReader("sku;nombre;costo\nX;Y;-3\n"), false)
	assert.ErrorContains(t, err, "línea 2")

	_, err = parseCatalog(strings.NewReader("sku;nombre;punto_reorden\nX;Y;muchos\n"), false)
	assert.Error(t, err)
}

func TestFlavorKey(t *testing.T) {
	assert.Equal(t, flavorKey("chocolate menta"), flavorKey("  Chocolate   MENTA "))
}
