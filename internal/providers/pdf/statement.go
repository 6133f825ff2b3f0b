package pdf

import (
	"context"
	"errors"

	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var ErrInvalidStatement = errors.New("invalid_statement_data")

// StatementData is a project profitability statement.
type StatementData struct {
	ProjectName string
	Customer    string
	Status      string
	StartDate   string
	QuoteAmount string

	Payments []StatementLine
	Expenses []StatementLine

	TotalReceived string
	TotalSpent    string
	Profit        string
	Margin        string
	Completion    string
}

type StatementLine struct {
	Date        string
	Description string
	Mode        string
	Amount      string
}

func (p *PDFProvider) GenerateStatement(ctx context.Context, st StatementData) ([]byte, error) {
	if st.ProjectName == "" {
		return nil, ErrInvalidStatement
	}

	m := newDocument()
	p.addLetterhead(m, "Project Statement")

	labelRow(m, "Project", st.ProjectName)
	if st.Customer != "" {
		labelRow(m, "Customer", st.Customer)
	}
	labelRow(m, "Status", st.Status)
	labelRow(m, "Start date", st.StartDate)
	labelRow(m, "Quoted amount", st.QuoteAmount)

	addLines(m, "Payments received", st.Payments)
	addLines(m, "Expenses", st.Expenses)

	m.AddRow(8, col.New(12))
	summaryRow(m, "Total received", st.TotalReceived)
	summaryRow(m, "Total spent", st.TotalSpent)
	summaryRow(m, "Profit", st.Profit)
	summaryRow(m, "Margin", st.Margin)
	summaryRow(m, "Completion", st.Completion)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}

func addLines(m core.Maroto, title string, lines []StatementLine) {
	m.AddRow(12, text.NewCol(12, title, props.Text{Size: 11, Style: fontstyle.Bold, Top: 5}))
	m.AddRow(7,
		text.NewCol(2, "Date", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(5, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Mode", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	if len(lines) == 0 {
		m.AddRow(6, text.NewCol(12, "None recorded", props.Text{Size: 9}))
		return
	}
	for _, l := range lines {
		m.AddRow(6,
			text.NewCol(2, l.Date, props.Text{Size: 9}),
			text.NewCol(5, l.Description, props.Text{Size: 9}),
			text.NewCol(2, l.Mode, props.Text{Size: 9}),
			text.NewCol(3, l.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}
}

func summaryRow(m core.Maroto, label, value string) {
	m.AddRow(7,
		col.New(6),
		text.NewCol(3, label, props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(3, value, props.Text{Size: 9, Align: align.Right}),
	)
}
