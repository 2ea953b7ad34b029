package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log"

	"soundhaus/internal/db"
	"soundhaus/internal/entities"
	httperrors "soundhaus/internal/errors"
)

type DeliverableStore interface {
	CreateDeliverable(d *db.Deliverable) error
	ListDeliverablesByBookingID(bookingID int) ([]db.Deliverable, error)
}

// FileStorage is the slice of the storage service the deliverable flows use.
type FileStorage interface {
	UploadDeliverable(ctx context.Context, file io.Reader, bookingCode string) (string, error)
	DownloadURL(publicID string) (string, error)
}

type DeliverableService struct {
	repo     DeliverableStore
	bookings BookingStore
	storage  FileStorage
	sender   Notifier
}

func NewDeliverableService(repo DeliverableStore, bookings BookingStore, storage FileStorage, sender Notifier) *DeliverableService {
	return &DeliverableService{
		repo:     repo,
		bookings: bookings,
		storage:  storage,
		sender:   sender,
	}
}

// AttachDeliverable uploads the file, records it against the booking and
// emails the customer a download link.
func (s *DeliverableService) AttachDeliverable(ctx context.Context, bookingID int, title string, file io.Reader) (*entities.DeliverableResponse, error) {
	if title == "" {
		return nil, httperrors.Validation("title is required")
	}

	booking, err := s.bookings.GetBookingByID(bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperrors.NotFound("booking not found")
		}
		return nil, httperrors.TransientStore("could not load booking")
	}

	publicID, err := s.storage.UploadDeliverable(ctx, file, booking.Code)
	if err != nil {
		log.Printf("Error uploading deliverable for booking %s: %v", booking.Code, err)
		return nil, err
	}

	deliverable := &db.Deliverable{
		BookingID: bookingID,
		Title:     title,
		PublicID:  publicID,
	}
	if err := s.repo.CreateDeliverable(deliverable); err != nil {
		log.Printf("Error recording deliverable for booking %s: %v", booking.Code, err)
		return nil, httperrors.TransientStore("could not record deliverable")
	}

	downloadURL, err := s.storage.DownloadURL(publicID)
	if err != nil {
		log.Printf("Error building download URL for %s: %v", publicID, err)
		return nil, err
	}

	s.sender.SendDeliverableEmail(booking, title, downloadURL)

	return &entities.DeliverableResponse{
		ID:          deliverable.ID,
		Title:       deliverable.Title,
		DownloadURL: downloadURL,
		CreatedAt:   deliverable.CreatedAt,
	}, nil
}

// ListForCustomer returns download links for a booking, gated on the
// customer knowing both the booking code and the email it was made with.
func (s *DeliverableService) ListForCustomer(code, email string) ([]entities.DeliverableResponse, error) {
	booking, err := s.bookings.GetBookingByCode(code, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperrors.NotFound("booking not found")
		}
		return nil, httperrors.TransientStore("could not load booking")
	}

	deliverables, err := s.repo.ListDeliverablesByBookingID(booking.ID)
	if err != nil {
		log.Printf("Error listing deliverables for booking %s: %v", code, err)
		return nil, httperrors.TransientStore("could not list deliverables")
	}

	resp := make([]entities.DeliverableResponse, 0, len(deliverables))
	for _, d := range deliverables {
		url, err := s.storage.DownloadURL(d.PublicID)
		if err != nil {
			log.Printf("Error building download URL for %s: %v", d.PublicID, err)
			continue
		}
		resp = append(resp, entities.DeliverableResponse{
			ID:          d.ID,
			Title:       d.Title,
			DownloadURL: url,
			CreatedAt:   d.CreatedAt,
		})
	}
	return resp, nil
}
