package patient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/apperr"
)

type mockRepo struct {
	items map[uuid.UUID]*Patient
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Patient)}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	copied := *p
	m.items[p.ID] = &copied
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.items[p.ID]; !ok {
		return apperr.ErrNotFound
	}
	copied := *p
	m.items[p.ID] = &copied
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	var result []*Patient
	for _, p := range m.items {
		copied := *p
		result = append(result, &copied)
	}
	return result, len(result), nil
}

func validPatient() *Patient {
	return &Patient{
		FirstName:   "Jane",
		LastName:    "Doe",
		DateOfBirth: time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
		Gender:      "female",
	}
}

func TestCreate_Valid(t *testing.T) {
	svc := NewService(newMockRepo())

	p := validPatient()
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
}

func TestCreate_MissingRequiredFields(t *testing.T) {
	svc := NewService(newMockRepo())

	cases := []*Patient{
		{LastName: "Doe", DateOfBirth: time.Now(), Gender: "female"},
		{FirstName: "Jane", DateOfBirth: time.Now(), Gender: "female"},
		{FirstName: "Jane", LastName: "Doe", Gender: "female"},
		{FirstName: "Jane", LastName: "Doe", DateOfBirth: time.Now()},
	}
	for i, p := range cases {
		if err := svc.Create(context.Background(), p); !errors.Is(err, apperr.ErrInvalidInput) {
			t.Errorf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestUpdate_Partial(t *testing.T) {
	svc := NewService(newMockRepo())

	p := validPatient()
	svc.Create(context.Background(), p)

	phone := "555-0100"
	updated, err := svc.Update(context.Background(), p.ID, Update{Phone: &phone})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Phone == nil || *updated.Phone != "555-0100" {
		t.Error("expected phone updated")
	}
	if updated.FirstName != "Jane" {
		t.Errorf("expected first name unchanged, got %s", updated.FirstName)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())

	name := "X"
	_, err := svc.Update(context.Background(), uuid.New(), Update{FirstName: &name})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc := NewService(newMockRepo())

	p := validPatient()
	svc.Create(context.Background(), p)

	if err := svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), p.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
