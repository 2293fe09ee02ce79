package validation

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/yoockh/yoojob/internal/models"
)

// ValidateRole accepts candidate or recruiter.
func ValidateRole(fl validator.FieldLevel) bool {
	return models.UserRole(fl.Field().String()).Valid()
}

// ValidateApplicationStatus accepts pending, reviewed, accepted or rejected.
func ValidateApplicationStatus(fl validator.FieldLevel) bool {
	return models.ApplicationStatus(fl.Field().String()).Valid()
}

func ValidateJobStatus(fl validator.FieldLevel) bool {
	s := models.JobStatus(fl.Field().String())
	return s == models.JobOpen || s == models.JobClosed
}

// RegisterValidators registers the marketplace tags on v.
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("role", ValidateRole); err != nil {
		return err
	}
	if err := v.RegisterValidation("appstatus", ValidateApplicationStatus); err != nil {
		return err
	}
	return v.RegisterValidation("jobstatus", ValidateJobStatus)
}

// RegisterGin hooks the marketplace tags into gin's binding engine.
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return RegisterValidators(v)
}
