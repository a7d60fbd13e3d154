package http

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	dbErrors "github.com/vogiaan1904/ticketbottle-dashboard/internal/errors"
	pkgErrors "github.com/vogiaan1904/ticketbottle-dashboard/pkg/errors"
)

var (
	errInvalidBody           = pkgErrors.NewHTTPError(http.StatusBadRequest, 10001, "Invalid request body")
	errValidation            = pkgErrors.NewHTTPError(http.StatusBadRequest, 10002, "Validation failed")
	errConfigurationNotFound = pkgErrors.NewHTTPError(http.StatusNotFound, 20001, "No configuration has been saved yet")
	errConfigurationMissing  = pkgErrors.NewHTTPError(http.StatusPreconditionFailed, 20002, "Please configure the system first")
	errConfigurationLocked   = pkgErrors.NewHTTPError(http.StatusConflict, 20003, "Stop the system before changing it")
	errAlreadyRunning        = pkgErrors.NewHTTPError(http.StatusConflict, 30001, "System is already running")
	errRemote                = pkgErrors.NewHTTPError(http.StatusBadGateway, 40001, "Ticket service request failed")
	errRemoteRejected        = pkgErrors.NewHTTPError(http.StatusBadRequest, 40002, "Ticket service rejected the request")
)

func mapError(err error) error {
	var ve *dbErrors.ValidationError
	if errors.As(err, &ve) {
		return errValidation.WithDetails(ve.Reasons)
	}

	var fe validator.ValidationErrors
	if errors.As(err, &fe) {
		reasons := make([]string, 0, len(fe))
		for _, f := range fe {
			reasons = append(reasons, f.Field()+" failed on "+f.Tag())
		}
		return errValidation.WithDetails(reasons)
	}

	switch {
	case errors.Is(err, dbErrors.ErrConfigurationNotFound):
		return errConfigurationNotFound
	case errors.Is(err, dbErrors.ErrConfigurationMissing):
		return errConfigurationMissing
	case errors.Is(err, dbErrors.ErrConfigurationLocked):
		return errConfigurationLocked
	case errors.Is(err, dbErrors.ErrAlreadyRunning), errors.Is(err, dbErrors.ErrSchedulerRunning):
		return errAlreadyRunning
	}

	var re *dbErrors.RemoteError
	if errors.As(err, &re) {
		if re.StatusCode == http.StatusBadRequest {
			return errRemoteRejected.WithDetails(re.Body)
		}
		return errRemote.WithDetails(re.Error())
	}

	return err
}
