package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/officecrm/internal/clock"
	docdomain "github.com/smallbiznis/officecrm/internal/document/domain"
	"github.com/smallbiznis/officecrm/internal/finance"
	invoicedomain "github.com/smallbiznis/officecrm/internal/invoice/domain"
	leaddomain "github.com/smallbiznis/officecrm/internal/lead/domain"
	obsmetrics "github.com/smallbiznis/officecrm/internal/observability/metrics"
	"github.com/smallbiznis/officecrm/internal/payment/domain"
	projectdomain "github.com/smallbiznis/officecrm/internal/project/domain"
	"github.com/smallbiznis/officecrm/internal/providers/pdf"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// amountTolerance absorbs float drift when comparing against the balance.
const amountTolerance = 0.005

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	Invoices   invoicedomain.Repository
	Projects   projectdomain.Repository
	Leads      leaddomain.Repository
	PDF        pdf.Provider
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	invoices   invoicedomain.Repository
	projects   projectdomain.Repository
	leads      leaddomain.Repository
	pdf        pdf.Provider
	obsMetrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("payment.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		invoices:   p.Invoices,
		projects:   p.Projects,
		leads:      p.Leads,
		pdf:        p.PDF,
		obsMetrics: p.ObsMetrics,
	}
}

// Record stores a payment and applies it to the invoice balance. Both writes
// share one transaction; a concurrent change to the invoice aborts it.
func (s *Service) Record(ctx context.Context, req domain.RecordPaymentRequest) (domain.Payment, error) {
	invoiceID, err := snowflake.ParseString(strings.TrimSpace(req.InvoiceID))
	if err != nil || invoiceID == 0 {
		return domain.Payment{}, domain.ErrInvalidInvoice
	}
	if req.Amount <= 0 {
		return domain.Payment{}, domain.ErrInvalidAmount
	}
	date, err := docdomain.ParseDate(req.PaymentDate)
	if err != nil {
		return domain.Payment{}, domain.ErrInvalidDate
	}
	mode := finance.PaymentMode(strings.ToLower(strings.TrimSpace(req.PaymentMode)))
	if mode == "" {
		mode = finance.PaymentModeCash
	}
	if !mode.Valid() {
		return domain.Payment{}, domain.ErrInvalidPaymentMode
	}

	var payment domain.Payment
	var next finance.Balance
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := s.invoices.FindByID(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrInvoiceNotFound
		}
		current := inv.Balance()
		if req.Amount > current.BalanceAmount+amountTolerance {
			return domain.ErrAmountExceedsDue
		}

		project, err := s.projects.FindByInvoiceID(ctx, tx, invoiceID)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		payment = domain.Payment{
			ID:              s.genID.Generate(),
			InvoiceID:       invoiceID,
			Amount:          req.Amount,
			PaymentDate:     date,
			PaymentMode:     mode,
			ReferenceNumber: strings.TrimSpace(req.ReferenceNumber),
			Notes:           strings.TrimSpace(req.Notes),
			CreatedAt:       now,
		}
		if project != nil {
			payment.ProjectID = &project.ID
		}
		if err := s.repo.Insert(ctx, tx, &payment); err != nil {
			return err
		}

		next = finance.ApplyPayment(current, req.Amount)
		return s.invoices.UpdateBalance(ctx, tx, invoiceID, current.PaidAmount, next, now)
	})
	if err != nil {
		return domain.Payment{}, err
	}

	s.obsMetrics.RecordPayment(ctx, string(mode))
	s.log.Info("payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("invoice_id", invoiceID.String()),
		zap.Float64("amount", payment.Amount),
		zap.String("invoice_status", string(next.Status)),
	)
	return payment, nil
}

// Delete removes a payment and reverts its effect on the invoice.
func (s *Service) Delete(ctx context.Context, id string) error {
	pid, err := parseID(id)
	if err != nil {
		return err
	}

	var payment *domain.Payment
	var next finance.Balance
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment, err = s.repo.FindByID(ctx, tx, pid)
		if err != nil {
			return err
		}
		if payment == nil {
			return domain.ErrNotFound
		}

		inv, err := s.invoices.FindByID(ctx, tx, payment.InvoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrInvoiceNotFound
		}

		current := inv.Balance()
		next = finance.RevertPayment(current, payment.Amount)
		if err := s.invoices.UpdateBalance(ctx, tx, inv.ID, current.PaidAmount, next, s.clock.Now()); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, pid)
	})
	if err != nil {
		return err
	}

	s.obsMetrics.RecordPaymentDeleted(ctx, string(payment.PaymentMode))
	s.log.Info("payment deleted",
		zap.String("payment_id", pid.String()),
		zap.String("invoice_id", payment.InvoiceID.String()),
		zap.String("invoice_status", string(next.Status)),
	)
	return nil
}

func (s *Service) ListByInvoice(ctx context.Context, invoiceID string) ([]domain.Payment, error) {
	iid, err := snowflake.ParseString(strings.TrimSpace(invoiceID))
	if err != nil || iid == 0 {
		return nil, domain.ErrInvalidInvoice
	}
	inv, err := s.invoices.FindByID(ctx, s.db, iid)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrInvoiceNotFound
	}
	return s.repo.ListByInvoice(ctx, s.db, iid)
}

// Receipt renders an acknowledgement for a single payment.
func (s *Service) Receipt(ctx context.Context, id string) (*pdf.Document, error) {
	pid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	payment, err := s.repo.FindByID(ctx, s.db, pid)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, domain.ErrNotFound
	}
	inv, err := s.invoices.FindByID(ctx, s.db, payment.InvoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrInvoiceNotFound
	}

	data := pdf.ReceiptData{
		ReceiptNumber:   "RCPT-" + payment.ID.String(),
		InvoiceNumber:   inv.InvoiceNumber,
		DatePaid:        finance.FormatDate(payment.PaymentDate),
		PaymentMode:     payment.PaymentMode.Label(),
		ReferenceNumber: payment.ReferenceNumber,
		AmountPaid:      finance.FormatRupees(payment.Amount),
		InvoiceTotal:    finance.FormatRupees(inv.TotalAmount),
		TotalPaid:       finance.FormatRupees(inv.PaidAmount),
		BalanceDue:      finance.FormatRupees(inv.BalanceAmount),
		Notes:           payment.Notes,
	}
	lead, err := s.leads.FindByID(ctx, s.db, inv.LeadID)
	if err != nil {
		return nil, err
	}
	if lead != nil {
		data.BillToName = lead.CompanyName
		data.BillToAddress = strings.TrimSpace(strings.Join([]string{lead.Address, lead.City}, " "))
	}

	out, err := s.pdf.GenerateReceipt(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("payment receipt %s: %w", pid, err)
	}
	return &pdf.Document{Filename: data.ReceiptNumber + ".pdf", Data: out}, nil
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
