package analytics

import (
	"sort"
	"time"

	"github.com/MrJamesThe3rd/vyapari/internal/ledger"
)

type SaleRecord struct {
	ID string
	At time.Time
	*ledger.Sale
}

type ExpenseRecord struct {
	ID string
	At time.Time
	*ledger.Expense
}

// Log is the transaction log split by kind, each slice in chronological
// order.
type Log struct {
	Sales    []SaleRecord
	Expenses []ExpenseRecord
	// Archived holds identity keys of soft-deleted customers.
	Archived map[string]bool
	// Skipped counts records that could not be classified.
	Skipped int
}

// Classify splits txs by kind. Records with an unreadable id or an
// inconsistent payload are counted in Skipped and otherwise ignored.
func Classify(txs []*ledger.Transaction, loc *time.Location) Log {
	log := Log{Archived: map[string]bool{}}

	type customerEntry struct {
		at  time.Time
		rec *ledger.CustomerRecord
	}

	var customers []customerEntry

	for _, tx := range txs {
		if tx == nil || tx.Validate() != nil {
			log.Skipped++
			continue
		}

		at, err := tx.Time()
		if err != nil {
			log.Skipped++
			continue
		}

		if loc != nil {
			at = at.In(loc)
		}

		switch tx.Kind {
		case ledger.KindSale:
			log.Sales = append(log.Sales, SaleRecord{ID: tx.ID, At: at, Sale: tx.Sale})
		case ledger.KindExpense:
			log.Expenses = append(log.Expenses, ExpenseRecord{ID: tx.ID, At: at, Expense: tx.Expense})
		case ledger.KindCustomer:
			customers = append(customers, customerEntry{at: at, rec: tx.Customer})
		}
	}

	// The latest record for an identity decides whether it is archived.
	sort.SliceStable(customers, func(i, j int) bool { return customers[i].at.Before(customers[j].at) })

	for _, c := range customers {
		key := IdentityKey(c.rec.Name, c.rec.Phone)
		log.Archived[key] = c.rec.Status == ledger.CustomerStatusArchived
	}

	sort.SliceStable(log.Sales, func(i, j int) bool { return log.Sales[i].At.Before(log.Sales[j].At) })
	sort.SliceStable(log.Expenses, func(i, j int) bool { return log.Expenses[i].At.Before(log.Expenses[j].At) })

	return log
}

func (l Log) SalesIn(r Range) []SaleRecord {
	var out []SaleRecord

	for _, s := range l.Sales {
		if r.Contains(s.At) {
			out = append(out, s)
		}
	}

	return out
}

func (l Log) ExpensesIn(r Range) []ExpenseRecord {
	var out []ExpenseRecord

	for _, e := range l.Expenses {
		if r.Contains(e.At) {
			out = append(out, e)
		}
	}

	return out
}

// identity returns the customer key of a sale, or false for anonymous sales
// and archived customers.
func (l Log) identity(s SaleRecord) (string, bool) {
	if NormalizeName(s.CustomerName) == "" {
		return "", false
	}

	key := IdentityKey(s.CustomerName, s.CustomerPhone)
	if l.Archived[key] {
		return "", false
	}

	return key, true
}
