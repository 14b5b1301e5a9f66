package dto

import "github.com/jhoicas/inventario-ledger/internal/domain"

// Límites de paginación del historial.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ValidatePage valida page >= 0 y size en [1, MaxPageSize].
func ValidatePage(page, size int) error {
	if page < 0 || size < 1 || size > MaxPageSize {
		return domain.ErrInvalidPage
	}
	return nil
}

// Page sobre de respuesta paginada (contrato con la capa HTTP).
type Page[T any] struct {
	Content          []T   `json:"content"`
	Page             int   `json:"page"`
	Size             int   `json:"size"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
	Empty            bool  `json:"empty"`
	NumberOfElements int   `json:"numberOfElements"`
}

// NewPage construye el sobre: totalPages = ceil(total/size), first = page==0,
// last = page >= totalPages-1, empty = content vacío.
func NewPage[T any](content []T, page, size int, total int64) *Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	return &Page[T]{
		Content:          content,
		Page:             page,
		Size:             size,
		TotalElements:    total,
		TotalPages:       totalPages,
		First:            page == 0,
		Last:             page >= totalPages-1,
		Empty:            len(content) == 0,
		NumberOfElements: len(content),
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
