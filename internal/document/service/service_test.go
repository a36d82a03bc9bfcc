package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	annstore "redink/internal/annotation/store"
	"redink/internal/content"
	"redink/internal/convert/mock"
	"redink/internal/document/models"
	"redink/internal/document/store"
	derrors "redink/pkg/domain-errors"
)

type staticOwners map[uuid.UUID]bool

func (o staticOwners) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return o[id], nil
}

type failingDocStore struct {
	store.Store
	createErr error
}

func (s *failingDocStore) Create(ctx context.Context, doc *models.Document) error {
	if s.createErr != nil {
		return s.createErr
	}
	return s.Store.Create(ctx, doc)
}

type ServiceSuite struct {
	suite.Suite

	ctrl        *gomock.Controller
	converter   *mock.MockConverter
	documents   *failingDocStore
	files       *content.InMemoryStore
	annotations *annstore.InMemory
	service     *Service
	ctx         context.Context
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.converter = mock.NewMockConverter(s.ctrl)
	s.documents = &failingDocStore{Store: store.NewInMemory()}
	s.files = content.NewInMemoryStore()
	s.annotations = annstore.NewInMemory()
	s.ctx = context.Background()

	s.service = New(s.documents, s.files, s.converter,
		WithOwnerChecker(staticOwners{}),
		WithAnnotationPurger(s.annotations),
	)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) TestIngestPDF() {
	doc, err := s.service.Ingest(s.ctx, "notes.pdf", []byte("%PDF-1.4 stub"), nil)
	s.Require().NoError(err)

	s.Equal(models.FormatPDF, doc.OriginalFormat)
	s.Equal("notes.pdf", doc.OriginalFilename)
	s.Nil(doc.OwnerID)
	s.NotEmpty(doc.ShareToken)

	stored, err := s.files.Read(s.ctx, doc.StoredFilename)
	s.Require().NoError(err)
	s.Equal([]byte("%PDF-1.4 stub"), stored)

	found, err := s.documents.FindByID(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Equal(doc.ShareToken, found.ShareToken)
}

func (s *ServiceSuite) TestIngestDOCXConverts() {
	src := []byte("docx bytes")
	converted := []byte("%PDF-1.4 converted")
	s.converter.EXPECT().
		Convert(gomock.Any(), src, models.FormatDOCX).
		Return(converted, nil)

	doc, err := s.service.Ingest(s.ctx, "Essay.DOCX", src, nil)
	s.Require().NoError(err)
	s.Equal(models.FormatDOCX, doc.OriginalFormat)

	stored, err := s.files.Read(s.ctx, doc.StoredFilename)
	s.Require().NoError(err)
	s.Equal(converted, stored)
}

func (s *ServiceSuite) TestIngestUnsupportedExtension() {
	_, err := s.service.Ingest(s.ctx, "photo.png", []byte("data"), nil)
	s.True(derrors.HasCode(err, derrors.CodeValidation))

	keys, err := s.files.Keys(s.ctx)
	s.Require().NoError(err)
	s.Empty(keys)
}

func (s *ServiceSuite) TestIngestEmptyFile() {
	_, err := s.service.Ingest(s.ctx, "notes.pdf", nil, nil)
	s.True(derrors.HasCode(err, derrors.CodeValidation))
}

func (s *ServiceSuite) TestIngestConversionFailureLeavesNothing() {
	s.converter.EXPECT().
		Convert(gomock.Any(), gomock.Any(), models.FormatDOCX).
		Return(nil, derrors.New(derrors.CodeConversion, "conversion failed"))

	_, err := s.service.Ingest(s.ctx, "essay.docx", []byte("docx"), nil)
	s.True(derrors.HasCode(err, derrors.CodeConversion))

	keys, err := s.files.Keys(s.ctx)
	s.Require().NoError(err)
	s.Empty(keys)
}

func (s *ServiceSuite) TestIngestRecordFailureRemovesFile() {
	s.documents.createErr = derrors.New(derrors.CodeStorage, "insert failed")

	_, err := s.service.Ingest(s.ctx, "notes.pdf", []byte("%PDF"), nil)
	s.True(derrors.HasCode(err, derrors.CodeStorage))

	keys, err := s.files.Keys(s.ctx)
	s.Require().NoError(err)
	s.Empty(keys)
}

func (s *ServiceSuite) TestIngestKnownOwner() {
	ownerID := uuid.New()
	s.service.owners = staticOwners{ownerID: true}

	doc, err := s.service.Ingest(s.ctx, "notes.pdf", []byte("%PDF"), &ownerID)
	s.Require().NoError(err)
	s.Require().NotNil(doc.OwnerID)
	s.Equal(ownerID, *doc.OwnerID)
}

func (s *ServiceSuite) TestIngestUnknownOwnerIsAnonymous() {
	claimed := uuid.New()
	doc, err := s.service.Ingest(s.ctx, "notes.pdf", []byte("%PDF"), &claimed)
	s.Require().NoError(err)
	s.Nil(doc.OwnerID)
}

func (s *ServiceSuite) TestFileReturnsDownloadName() {
	s.converter.EXPECT().
		Convert(gomock.Any(), gomock.Any(), models.FormatDOCX).
		Return([]byte("%PDF converted"), nil)

	doc, err := s.service.Ingest(s.ctx, "final essay.docx", []byte("docx"), nil)
	s.Require().NoError(err)

	data, name, err := s.service.File(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Equal([]byte("%PDF converted"), data)
	s.Equal("final essay.pdf", name)
}

func (s *ServiceSuite) TestFileUnknownDocument() {
	_, _, err := s.service.File(s.ctx, uuid.New())
	s.True(derrors.HasCode(err, derrors.CodeNotFound))
}

func (s *ServiceSuite) TestDeleteRemovesEverything() {
	doc, err := s.service.Ingest(s.ctx, "notes.pdf", []byte("%PDF"), nil)
	s.Require().NoError(err)
	_, err = s.annotations.Upsert(s.ctx, doc.ID, 1, json.RawMessage(`{"ink":[]}`), time.Now().UTC())
	s.Require().NoError(err)

	s.Require().NoError(s.service.Delete(s.ctx, doc.ID, nil))

	_, err = s.documents.FindByID(s.ctx, doc.ID)
	s.True(derrors.HasCode(err, derrors.CodeNotFound))

	_, err = s.files.Read(s.ctx, doc.StoredFilename)
	s.True(derrors.HasCode(err, derrors.CodeNotFound))

	anns, err := s.annotations.ListByDocument(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Empty(anns)
}

func (s *ServiceSuite) TestDeleteOwnedDocumentWrongRequester() {
	ownerID := uuid.New()
	s.service.owners = staticOwners{ownerID: true}
	doc, err := s.service.Ingest(s.ctx, "notes.pdf", []byte("%PDF"), &ownerID)
	s.Require().NoError(err)

	stranger := uuid.New()
	err = s.service.Delete(s.ctx, doc.ID, &stranger)
	s.True(derrors.HasCode(err, derrors.CodeForbidden))

	_, err = s.documents.FindByID(s.ctx, doc.ID)
	s.NoError(err)
}

func (s *ServiceSuite) TestDeleteOwnedDocumentNoIdentity() {
	ownerID := uuid.New()
	s.service.owners = staticOwners{ownerID: true}
	doc, err := s.service.Ingest(s.ctx, "notes.pdf", []byte("%PDF"), &ownerID)
	s.Require().NoError(err)

	s.NoError(s.service.Delete(s.ctx, doc.ID, nil))
}

func (s *ServiceSuite) TestDeleteMissingFileIsNonFatal() {
	doc, err := s.service.Ingest(s.ctx, "notes.pdf", []byte("%PDF"), nil)
	s.Require().NoError(err)
	s.Require().NoError(s.files.Remove(s.ctx, doc.StoredFilename))

	s.NoError(s.service.Delete(s.ctx, doc.ID, nil))

	_, err = s.documents.FindByID(s.ctx, doc.ID)
	s.True(derrors.HasCode(err, derrors.CodeNotFound))
}

func (s *ServiceSuite) TestDeleteUnknownDocument() {
	err := s.service.Delete(s.ctx, uuid.New(), nil)
	s.True(derrors.HasCode(err, derrors.CodeNotFound))
}

func (s *ServiceSuite) TestDeleteStorageErrorKeepsRecord() {
	doc, err := s.service.Ingest(s.ctx, "notes.pdf", []byte("%PDF"), nil)
	s.Require().NoError(err)

	broken := &brokenRemoveStore{Store: s.files}
	s.service.files = broken

	err = s.service.Delete(s.ctx, doc.ID, nil)
	s.Error(err)

	_, err = s.documents.FindByID(s.ctx, doc.ID)
	s.NoError(err)
}

type brokenRemoveStore struct {
	content.Store
}

func (b *brokenRemoveStore) Remove(context.Context, string) error {
	return derrors.Wrap(errors.New("disk detached"), derrors.CodeStorage, "remove file")
}
