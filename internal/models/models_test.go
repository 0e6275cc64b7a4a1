package models

import (
	"testing"
)

func TestEnumsValid(t *testing.T) {
	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"20pieds", ContainerType("20pieds").Valid(), true},
		{"40pieds", ContainerType("40pieds").Valid(), true},
		{"45pieds", ContainerType("45pieds").Valid(), false},
		{"semi_fini", ProductType("semi_fini").Valid(), true},
		{"matiere_premiere", ProductType("matiere_premiere").Valid(), true},
		// exact match only, no substring or case folding
		{"matiere_premiere_brute", ProductType("matiere_premiere_brute").Valid(), false},
		{"Semi_Fini", ProductType("Semi_Fini").Valid(), false},
		{"payée", InvoiceStatus("payée").Valid(), true},
		{"impayée", InvoiceStatus("impayée").Valid(), true},
		{"en_retard", InvoiceStatus("en_retard").Valid(), true},
		{"payee", InvoiceStatus("payee").Valid(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("Valid() = %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestInvoiceStatusOutstanding(t *testing.T) {
	if InvoiceStatusPaid.Outstanding() {
		t.Error("paid invoice should not be outstanding")
	}
	if !InvoiceStatusUnpaid.Outstanding() || !InvoiceStatusOverdue.Outstanding() {
		t.Error("unpaid and overdue invoices should be outstanding")
	}
}

func TestInvoiceLineTotal(t *testing.T) {
	l := InvoiceLine{Quantite: 3, PrixUnitaire: 2.5}
	if got := l.Total(); got != 7.5 {
		t.Errorf("Total() = %f, want 7.5", got)
	}
}

func TestClientSnapshot(t *testing.T) {
	c := Client{Nom: "Kouassi", Email: "k@example.ci", Telephone: "+225 01", Entreprise: "KTrans", Adresse: "Abidjan"}
	s := c.Snapshot()
	want := ClientSnapshot{Nom: "Kouassi", Adresse: "Abidjan", Telephone: "+225 01", Email: "k@example.ci"}
	if s != want {
		t.Errorf("Snapshot() = %+v, want %+v", s, want)
	}
	// the snapshot is a copy
	c.Nom = "changed"
	if s.Nom != "Kouassi" {
		t.Error("snapshot must not follow later client edits")
	}
}

func TestArticleLine(t *testing.T) {
	a := Article{Nom: "Ciment", Prix: 5000, Unite: "sac"}
	l := a.Line(4)
	if l.Description != "Ciment" || l.PrixUnitaire != 5000 || l.Quantite != 4 {
		t.Errorf("Line() = %+v", l)
	}
}

func TestInvoiceNumberLines(t *testing.T) {
	inv := Invoice{Record: Record{ID: "abc"}, Lines: []InvoiceLine{{ID: 9, Description: "a"}, {Description: "b"}}}
	inv.numberLines()
	for i, l := range inv.Lines {
		if l.Position != i || l.InvoiceID != "abc" || l.ID != 0 {
			t.Errorf("line %d = %+v", i, l)
		}
	}
}

func TestCompanyFooterLines(t *testing.T) {
	c := CompanySettings{Name: "ENTREPRISE OKOTAN", Capital: "10.000.000 FCFA", Email: "contact@okotan.com"}
	got := c.FooterLines("fr")
	want := []string{
		"ENTREPRISE OKOTAN - Capital social: 10.000.000 FCFA",
		"Email: contact@okotan.com",
	}
	if len(got) != len(want) {
		t.Fatalf("FooterLines(fr) = %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
	if len((&CompanySettings{}).FooterLines("fr")) != 0 {
		t.Error("empty settings should have no footer")
	}

	c = CompanySettings{Name: "OKOTAN", TaxID: "1234", Phone: "0707"}
	en := c.FooterLines("en")
	if len(en) != 2 || en[1] != "Taxpayer number: 1234 - Phone: 0707" {
		t.Errorf("FooterLines(en) = %q", en)
	}
}
