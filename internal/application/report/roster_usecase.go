package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Directorio-api/internal/domain"
	"github.com/jhoicas/Directorio-api/internal/domain/entity"
	"github.com/jhoicas/Directorio-api/internal/domain/repository"
)

// RosterPDFGenerator puerto para la representación gráfica del directorio.
type RosterPDFGenerator interface {
	GenerateRosterPDF(ctx context.Context, title string, users []*entity.User, generatedAt time.Time) ([]byte, error)
}

// RosterUseCase exporta el directorio completo a PDF.
type RosterUseCase struct {
	repo      repository.UserRepository
	generator RosterPDFGenerator
	title     string
	now       func() time.Time
}

// NewRosterUseCase construye el caso de uso; title encabeza el documento.
func NewRosterUseCase(repo repository.UserRepository, generator RosterPDFGenerator, title string) *RosterUseCase {
	return &RosterUseCase{repo: repo, generator: generator, title: title, now: time.Now}
}

// DownloadRoster devuelve los bytes del PDF y un nombre de archivo sugerido.
// Un directorio vacío es domain.ErrNotFound, igual que el listado.
func (uc *RosterUseCase) DownloadRoster(ctx context.Context) (pdfBytes []byte, filename string, err error) {
	users, err := uc.repo.List(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("roster: listar usuarios: %w", err)
	}
	if len(users) == 0 {
		return nil, "", domain.NewError(domain.ErrNotFound, "no users found")
	}
	now := uc.now()
	pdfBytes, err = uc.generator.GenerateRosterPDF(ctx, uc.title, users, now)
	if err != nil {
		return nil, "", fmt.Errorf("roster: %w", err)
	}
	return pdfBytes, fmt.Sprintf("roster-%s.pdf", now.Format("20060102")), nil
}
