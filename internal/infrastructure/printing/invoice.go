package printing

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/freshline/backend/internal/domain/finance"
	"github.com/freshline/backend/internal/domain/partner"
	"github.com/freshline/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

//go:embed templates/*.html
var templateFS embed.FS

// Company is the issuer printed on every invoice
type Company struct {
	Name    string
	Address string
}

type invoiceView struct {
	Company     Company
	Invoice     *finance.Invoice
	Store       *partner.Store
	Outstanding decimal.Decimal
	Voided      bool
}

// InvoiceRenderer renders store invoices to PDF
type InvoiceRenderer struct {
	tmpl    *template.Template
	pdf     PDFRenderer
	company Company
	logger  *zap.Logger
}

// NewInvoiceRenderer parses the embedded invoice template
func NewInvoiceRenderer(cfg config.PrintingConfig, pdf PDFRenderer, logger *zap.Logger) (*InvoiceRenderer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := newFormatter(language.AmericanEnglish)
	tmpl, err := template.New("invoice.html").Funcs(f.funcMap()).ParseFS(templateFS, "templates/invoice.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse invoice template: %w", err)
	}
	return &InvoiceRenderer{
		tmpl:    tmpl,
		pdf:     pdf,
		company: Company{Name: cfg.CompanyName, Address: cfg.CompanyAddress},
		logger:  logger,
	}, nil
}

// RenderHTML executes the invoice template
func (r *InvoiceRenderer) RenderHTML(inv *finance.Invoice, store *partner.Store) (string, error) {
	if inv == nil || store == nil {
		return "", NewRenderError(ErrCodeTemplate, "invoice and store are required", nil)
	}
	var buf bytes.Buffer
	err := r.tmpl.Execute(&buf, invoiceView{
		Company:     r.company,
		Invoice:     inv,
		Store:       store,
		Outstanding: inv.Outstanding(),
		Voided:      inv.Status == finance.InvoiceStatusVoid,
	})
	if err != nil {
		return "", NewRenderError(ErrCodeTemplate, "failed to execute invoice template", err)
	}
	return buf.String(), nil
}

// RenderInvoice renders the invoice HTML and converts it to PDF
func (r *InvoiceRenderer) RenderInvoice(ctx context.Context, inv *finance.Invoice, store *partner.Store) ([]byte, error) {
	html, err := r.RenderHTML(inv, store)
	if err != nil {
		return nil, err
	}
	pdf, err := r.pdf.Render(ctx, &RenderRequest{
		HTML:   html,
		Page:   LetterPage,
		Footer: pageFooter(inv.InvoiceNumber),
	})
	if err != nil {
		r.logger.Error("Invoice PDF rendering failed",
			zap.String("invoice_number", inv.InvoiceNumber),
			zap.Error(err),
		)
		return nil, err
	}
	return pdf, nil
}

func pageFooter(number string) string {
	return `<div style="font-size:8px;width:100%;text-align:center;color:#777;">` +
		template.HTMLEscapeString(number) +
		` &middot; page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`
}
