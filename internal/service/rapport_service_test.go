package service

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sanogestion/internal/model"
	"sanogestion/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weekForm() RapportForm {
	return RapportForm{Titre: "Semaine 12", SemaineDebut: "2026-03-16", SemaineFin: "2026-03-20"}
}

func upload(name, content string) *Upload {
	return &Upload{Name: name, Size: int64(len(content)), Reader: strings.NewReader(content)}
}

func storedFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRapportCreateStoresFileAndJournals(t *testing.T) {
	f := newFixture(t)
	_, actor := f.seed(t, "moussa", model.RoleTrading)

	r, err := f.rapports.Create(f.ctx, actor, weekForm(), upload("Bilan Mars.PDF", "%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, actor.ID, r.PersonnelID)
	assert.Equal(t, "pdf", r.Extension)
	assert.Equal(t, model.RapportSoumis, r.Statut)
	assert.Equal(t, "Bilan Mars.PDF", r.NomFichier)

	files := storedFiles(t, f.files.Dir())
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Base(r.CheminFichier), files[0])
	assert.True(t, strings.HasSuffix(files[0], "_Bilan_Mars.PDF"))
	assert.Equal(t, []string{"CREATION_RAPPORT"}, f.journalActions(t))

	_, fh, err := f.rapports.Open(f.ctx, actor, r.ID)
	require.NoError(t, err)
	defer fh.Close()
	body, err := io.ReadAll(fh)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(body))
}

func TestRapportUploadRules(t *testing.T) {
	f := newFixture(t)
	_, actor := f.seed(t, "moussa", model.RoleTrading)

	_, err := f.rapports.Create(f.ctx, actor, weekForm(), upload("virus.exe", "MZ"))
	assert.True(t, IsValidation(err))

	big := bytes.Repeat([]byte("a"), int(f.files.MaxBytes())+1)
	_, err = f.rapports.Create(f.ctx, actor, weekForm(), &Upload{Name: "big.docx", Size: int64(len(big)), Reader: bytes.NewReader(big)})
	assert.True(t, IsValidation(err))

	// declared size lies, the stream is still capped
	_, err = f.rapports.Create(f.ctx, actor, weekForm(), &Upload{Name: "liar.docx", Size: 10, Reader: bytes.NewReader(big)})
	assert.True(t, IsValidation(err))

	_, err = f.rapports.Create(f.ctx, actor, weekForm(), nil)
	assert.True(t, IsValidation(err))

	bad := weekForm()
	bad.SemaineFin = "2026-03-01"
	_, err = f.rapports.Create(f.ctx, actor, bad, upload("ok.pdf", "x"))
	assert.True(t, IsValidation(err))

	assert.Empty(t, storedFiles(t, f.files.Dir()))
	assert.Zero(t, f.count(t, &model.Rapport{}))
	assert.Empty(t, f.journalActions(t))
}

func TestRapportReplacementLeavesOneFile(t *testing.T) {
	f := newFixture(t)
	_, actor := f.seed(t, "moussa", model.RoleTrading)

	r, err := f.rapports.Create(f.ctx, actor, weekForm(), upload("v1.pdf", "one"))
	require.NoError(t, err)

	updated, err := f.rapports.Update(f.ctx, actor, r.ID, weekForm(), upload("v2.docx", "two"))
	require.NoError(t, err)
	assert.Equal(t, "docx", updated.Extension)

	files := storedFiles(t, f.files.Dir())
	require.Len(t, files, 1)
	assert.True(t, strings.HasSuffix(files[0], "_v2.docx"))

	// metadata-only edit keeps the file
	_, err = f.rapports.Update(f.ctx, actor, r.ID, weekForm(), nil)
	require.NoError(t, err)
	assert.Len(t, storedFiles(t, f.files.Dir()), 1)

	require.NoError(t, f.rapports.Delete(f.ctx, actor, r.ID))
	assert.Empty(t, storedFiles(t, f.files.Dir()))
	assert.Equal(t, []string{"CREATION_RAPPORT", "MODIFICATION_RAPPORT", "MODIFICATION_RAPPORT", "SUPPRESSION_RAPPORT"}, f.journalActions(t))
}

func TestRapportOwnershipAndScoping(t *testing.T) {
	f := newFixture(t)
	_, admin := f.seed(t, "admin", model.RoleAdministrator)
	_, owner := f.seed(t, "owner", model.RoleTrading)
	_, other := f.seed(t, "other", model.RoleAcademy)

	r, err := f.rapports.Create(f.ctx, owner, weekForm(), upload("a.pdf", "a"))
	require.NoError(t, err)
	_, err = f.rapports.Create(f.ctx, other, weekForm(), upload("b.pdf", "b"))
	require.NoError(t, err)

	mine, meta, err := f.rapports.List(f.ctx, owner, repository.ListQuery{Page: pageOne()})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.EqualValues(t, 1, meta.Total)

	all, _, err := f.rapports.List(f.ctx, admin, repository.ListQuery{Page: pageOne()})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.rapports.Get(f.ctx, other, r.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.ErrorIs(t, f.rapports.Delete(f.ctx, other, r.ID), ErrAccessDenied)

	// non-admins cannot self-validate
	form := weekForm()
	form.Statut = model.RapportValide
	_, err = f.rapports.Update(f.ctx, owner, r.ID, form, nil)
	assert.True(t, IsValidation(err))

	validated, err := f.rapports.Update(f.ctx, admin, r.ID, form, nil)
	require.NoError(t, err)
	assert.Equal(t, model.RapportValide, validated.Statut)

	_, err = f.rapports.Update(f.ctx, owner, r.ID, weekForm(), nil)
	assert.True(t, IsValidation(err), "validated reports are frozen for their owner")
}

func TestRapportBulkAction(t *testing.T) {
	f := newFixture(t)
	_, admin := f.seed(t, "admin", model.RoleAdministrator)
	_, owner := f.seed(t, "owner", model.RoleTrading)

	r1, err := f.rapports.Create(f.ctx, owner, weekForm(), upload("a.pdf", "a"))
	require.NoError(t, err)
	r2, err := f.rapports.Create(f.ctx, owner, weekForm(), upload("b.pdf", "b"))
	require.NoError(t, err)

	_, err = f.rapports.BulkAction(f.ctx, owner, BulkActionRequest{Action: BulkValidate, Rapports: []uint{r1.ID}})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.rapports.BulkAction(f.ctx, admin, BulkActionRequest{Action: "archive", Rapports: []uint{r1.ID}})
	assert.True(t, IsValidation(err))
	_, err = f.rapports.BulkAction(f.ctx, admin, BulkActionRequest{Action: BulkValidate})
	assert.True(t, IsValidation(err))

	_, err = f.rapports.BulkAction(f.ctx, admin, BulkActionRequest{Action: BulkReject, Rapports: []uint{r1.ID, 9999}})
	assert.ErrorIs(t, err, ErrNotFound)

	res, err := f.rapports.BulkAction(f.ctx, admin, BulkActionRequest{Action: BulkValidate, Rapports: []uint{r1.ID, r2.ID, r1.ID}, Observations: "RAS"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, res.Message, "2 rapport(s)")

	got, err := f.rapports.Get(f.ctx, admin, r1.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RapportValide, got.Statut)
	assert.Equal(t, "RAS", got.Observations)

	_, err = f.rapports.BulkAction(f.ctx, admin, BulkActionRequest{Action: BulkDelete, Rapports: []uint{r1.ID, r2.ID}})
	require.NoError(t, err)
	assert.Zero(t, f.count(t, &model.Rapport{}))
	assert.Empty(t, storedFiles(t, f.files.Dir()))

	assert.Equal(t, []string{
		"CREATION_RAPPORT", "CREATION_RAPPORT",
		"VALIDATION_RAPPORT", "VALIDATION_RAPPORT",
		"SUPPRESSION_RAPPORT", "SUPPRESSION_RAPPORT",
	}, f.journalActions(t))
}
