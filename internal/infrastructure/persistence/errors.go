package persistence

import (
	"fmt"

	"github.com/hellcat/store/internal/domain/shared"
)

func errDuplicateProduct(id int64) error {
	return shared.NewDomainError(shared.CodeBusinessRule, fmt.Sprintf("Product %d already exists", id))
}

func errDuplicateOrder(id string) error {
	return shared.NewDomainError(shared.CodeBusinessRule, fmt.Sprintf("Order %s already exists", id))
}
