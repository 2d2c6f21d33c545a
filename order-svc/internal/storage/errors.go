package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"food-delivery/order-svc/internal/service"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func expectAffected(result sql.Result, entity string, id int) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %d", service.ErrNotFound, entity, id)
	}
	return nil
}
