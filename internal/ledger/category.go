package ledger

import (
	"strings"

	"github.com/gastosfacil/backend/internal/models"
)

// DefaultCategory is used when no category or an unknown one is supplied.
const DefaultCategory = models.CategoryOther

// ParseCategory maps raw input onto the closed category set.
// Unknown values are coerced to DefaultCategory rather than rejected.
func ParseCategory(raw string) models.Category {
	c := models.Category(strings.ToLower(strings.TrimSpace(raw)))
	if !c.Valid() {
		return DefaultCategory
	}
	return c
}
