package pdf

import (
	"context"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	appconfig "github.com/smallbiznis/officecrm/internal/config"
	"go.uber.org/fx"
)

// Provider renders the secondary business documents. Quotations and tax
// invoices go through the document renderer instead.
type Provider interface {
	GenerateReceipt(ctx context.Context, data ReceiptData) ([]byte, error)
	GenerateStatement(ctx context.Context, data StatementData) ([]byte, error)
}

var Module = fx.Module("providers.pdf",
	fx.Provide(New),
)

type PDFProvider struct {
	company appconfig.Company
}

func New(company appconfig.Company) Provider {
	return &PDFProvider{company: company}
}

func newDocument() core.Maroto {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()
	return maroto.New(cfg)
}

// addLetterhead writes the company block shared by every document.
func (p *PDFProvider) addLetterhead(m core.Maroto, title string) {
	m.AddRow(20,
		text.NewCol(7, p.company.Name, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(5, title, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)

	contact := col.New(12)
	top := 0.0
	for _, line := range p.company.Address {
		contact.Add(text.New(line, props.Text{Size: 9, Top: top}))
		top += 4
	}
	if p.company.Phone != "" {
		contact.Add(text.New("Phone: "+p.company.Phone, props.Text{Size: 9, Top: top}))
		top += 4
	}
	if p.company.GSTIN != "" {
		contact.Add(text.New("GSTIN: "+p.company.GSTIN, props.Text{Size: 9, Top: top}))
		top += 4
	}
	m.AddRow(top+4, contact)
}

func labelRow(m core.Maroto, label, value string) {
	m.AddRow(6,
		text.NewCol(4, label, props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(8, value, props.Text{Size: 9}),
	)
}

// Document is a generated file with the name it is served under.
type Document struct {
	Filename string
	Data     []byte
}

const ContentType = "application/pdf"
