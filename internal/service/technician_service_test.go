package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"app/internal/billing"
	"app/internal/model"

	"github.com/rs/zerolog"
)

func TestCreateTechnicianWithinPlanLimit(t *testing.T) {
	techs := &fakeTechRepo{techs: []model.Technician{activeTech("t1"), activeTech("t2")}}
	svc := NewTechnicianService(techs, newFakeProfileRepo(starterProfile("user-1")), zerolog.Nop())

	created, err := svc.CreateTechnician(context.Background(), &model.Technician{UserID: "user-1", Name: "New Tech"})
	if err != nil {
		t.Fatalf("CreateTechnician returned error: %v", err)
	}
	if created.ID == "" {
		t.Error("expected generated id")
	}
	if created.Status != model.TechnicianStatusActive {
		t.Errorf("expected default active status, got %q", created.Status)
	}
}

func TestCreateTechnicianRejectsOverPlanCap(t *testing.T) {
	techs := &fakeTechRepo{techs: []model.Technician{activeTech("t1"), activeTech("t2"), activeTech("t3")}}
	svc := NewTechnicianService(techs, newFakeProfileRepo(starterProfile("user-1")), zerolog.Nop())

	_, err := svc.CreateTechnician(context.Background(), &model.Technician{UserID: "user-1", Name: "One Too Many"})
	var limitErr *PlanLimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("expected PlanLimitError, got %v", err)
	}
	if !strings.Contains(limitErr.Message, "Starter Plan") {
		t.Errorf("expected plan name in message, got %q", limitErr.Message)
	}
	if !strings.Contains(limitErr.Message, "Growth Plan") {
		t.Errorf("expected upgrade suggestion, got %q", limitErr.Message)
	}
	if len(techs.created) != 0 {
		t.Errorf("expected no technician created, got %d", len(techs.created))
	}
}

func TestCreateTechnicianUnlimitedOnPro(t *testing.T) {
	roster := make([]model.Technician, 0, 50)
	for i := 0; i < 50; i++ {
		roster = append(roster, activeTech(string(rune('a'+i%26))))
	}
	techs := &fakeTechRepo{techs: roster}
	p := starterProfile("user-1")
	p.PlanTier = billing.TierPro
	svc := NewTechnicianService(techs, newFakeProfileRepo(p), zerolog.Nop())

	if _, err := svc.CreateTechnician(context.Background(), &model.Technician{UserID: "user-1", Name: "Tech 51"}); err != nil {
		t.Fatalf("expected no cap on pro, got %v", err)
	}
}

func TestGetTechnicianNotFound(t *testing.T) {
	svc := NewTechnicianService(&fakeTechRepo{}, newFakeProfileRepo(starterProfile("user-1")), zerolog.Nop())
	_, err := svc.GetTechnician(context.Background(), "user-1", "ghost")
	if !errors.Is(err, ErrTechnicianNotFound) {
		t.Fatalf("expected ErrTechnicianNotFound, got %v", err)
	}
}

func TestDeleteTechnicianNotFound(t *testing.T) {
	svc := NewTechnicianService(&fakeTechRepo{}, newFakeProfileRepo(starterProfile("user-1")), zerolog.Nop())
	if err := svc.DeleteTechnician(context.Background(), "user-1", "ghost"); !errors.Is(err, ErrTechnicianNotFound) {
		t.Fatalf("expected ErrTechnicianNotFound, got %v", err)
	}
}
