package usecase

import (
	"fmt"

	"food-ordering/pkg/apperror"

	"github.com/google/uuid"
)

var errUserGone = apperror.Authentication("This user does not exist anymore. You are not allowed to access this route.")

func parseID(raw, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.Validation(fmt.Sprintf("Invalid %s ID.", what))
	}
	return id, nil
}
