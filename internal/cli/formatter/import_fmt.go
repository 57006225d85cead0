package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/prodboard/internal/service"
)

// FormatImportResult summarises a backlog import.
func FormatImportResult(r *service.ImportResult) string {
	var b strings.Builder
	verb := "Updated"
	if r.ProductCreated {
		verb = "Created"
	}
	b.WriteString(fmt.Sprintf("%s product %s %s\n", StyleGreen.Render(verb), Bold(r.Product.DisplayID()), Dim(r.Product.Name)))
	b.WriteString(Field("CREATED", fmt.Sprintf("%d features", r.Created)))
	b.WriteString(Field("UPDATED", fmt.Sprintf("%d features", r.Updated)))
	b.WriteString(Field("DEPS", fmt.Sprintf("%d edges", r.DependencyCount)))
	return b.String()
}
