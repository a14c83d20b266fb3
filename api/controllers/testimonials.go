package controllers

import (
	"net/http"

	"github.com/veloxmotors/dealership-backend/api/responses"
	"github.com/veloxmotors/dealership-backend/api/validators"
	testimonialsvc "github.com/veloxmotors/dealership-backend/internal/testimonials"
	"github.com/veloxmotors/dealership-backend/pkg/logger"
)

type submitTestimonialRequest struct {
	AuthorName string `json:"author_name" validate:"required,min=1,max=120"`
	Message    string `json:"message" validate:"required,min=1,max=2000"`
}

type approveTestimonialRequest struct {
	Approved *bool `json:"approved" validate:"required"`
}

// ListTestimonials returns testimonials. ?approved=true narrows to published
// entries for the storefront.
func ListTestimonials(svc testimonialsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		approved, err := validators.ParseQueryBool(r, "approved")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.List(r.Context(), approved != nil && *approved)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// GetTestimonial returns one testimonial by id.
func GetTestimonial(svc testimonialsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// SubmitTestimonial records a new testimonial awaiting moderation.
func SubmitTestimonial(svc testimonialsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload submitTestimonialRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.Submit(r.Context(), payload.AuthorName, payload.Message)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// ApproveTestimonial publishes or unpublishes a testimonial.
func ApproveTestimonial(svc testimonialsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload approveTestimonialRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.SetApproval(r.Context(), id, *payload.Approved)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// DeleteTestimonial removes a testimonial. Succeeds even when absent.
func DeleteTestimonial(svc testimonialsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
