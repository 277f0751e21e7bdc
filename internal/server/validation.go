package server

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type voteRequest struct {
	DeviceID string `json:"device_id" validate:"omitempty,max=64"`
	AuthUID  string `json:"auth_uid" validate:"omitempty,max=64"`
	Name     string `json:"name" validate:"omitempty,max=64"`
	Phone    string `json:"phone" validate:"omitempty,min=7,max=16"`
	UPIID    string `json:"upi_id" validate:"omitempty,max=64,contains=@"`
	Team     string `json:"team" validate:"required,oneof=red green blue"`
}

func validateVoteRequest(req *voteRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.UPIID = strings.TrimSpace(req.UPIID)
	if err := validate.Struct(req); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(invalid) > 0 {
			field := strings.ToLower(invalid[0].Field())
			return validationErrorf("invalid %s", field)
		}
		return &ValidationError{Message: "invalid vote payload"}
	}
	return nil
}
