package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/suplementos-api/internal/application/dto"
)

func TestPageRequest_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   dto.PageRequest
		want dto.PageResponse
	}{
		{"vacío", dto.PageRequest{}, dto.PageResponse{Limit: dto.DefaultPageLimit}},
		{"tope", dto.PageRequest{Limit: 1000, Offset: 40}, dto.PageResponse{Limit: dto.MaxPageLimit, Offset: 40}},
		{"negativos", dto.PageRequest{Limit: -1, Offset: -5}, dto.PageResponse{Limit: dto.DefaultPageLimit}},
		{"válido", dto.PageRequest{Limit: 7, Offset: 14}, dto.PageResponse{Limit: 7, Offset: 14}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}
