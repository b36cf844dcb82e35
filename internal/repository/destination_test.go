package repository

import (
	"strings"
	"testing"

	"github.com/actuallystonmai/travel-recommender/internal/domain"
)

func TestListDestinationsQuery(t *testing.T) {
	sql, args, err := listDestinationsQuery().ToSql()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "SELECT name, description, reason FROM destinations ORDER BY position ASC, id ASC"
	if sql != want {
		t.Errorf("expected %q, got %q", want, sql)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
}

func TestInsertDestinationsQuery(t *testing.T) {
	rows := []domain.DestinationRow{
		{Name: "Bali", Description: "Island", Reason: "tropical"},
		{Name: "Kyoto", Description: "Temples", Reason: "mild"},
	}

	sql, args, err := insertDestinationsQuery(rows).ToSql()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(sql, "INSERT INTO destinations (position,name,description,reason) VALUES ($1,$2,$3,$4),($5,$6,$7,$8)") {
		t.Errorf("unexpected sql %q", sql)
	}
	if !strings.HasSuffix(sql, "ON CONFLICT (name) DO NOTHING") {
		t.Errorf("missing conflict clause in %q", sql)
	}
	if len(args) != 8 || args[0] != 0 || args[5] != "Kyoto" {
		t.Errorf("unexpected args %v", args)
	}
}
