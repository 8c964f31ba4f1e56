package service

import (
	"bytes"
	"fmt"
	"text/template"

	"vaultprint/internal/model"
)

var printBodyTpl = template.Must(template.New("printBody").Parse(`Dear print operator,

Please print the following documents.
{{range .}}
Attachment: {{.Filename}}
Copies: {{.Copies}}
Due date: {{.DueDate}}
{{end}}
Please find the files attached.

---
Sent automatically by the Veeva Vault print relay
`))

// RenderPrintBody lists every document in request order.
func RenderPrintBody(results []model.PrintResult) (string, error) {
	var buf bytes.Buffer
	if err := printBodyTpl.Execute(&buf, results); err != nil {
		return "", fmt.Errorf("render print body: %w", err)
	}
	return buf.String(), nil
}
