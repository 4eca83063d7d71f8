package card

import (
	"context"

	"github.com/mattsolo1/grove-variables/pkg/models"
)

// TypeChooser asks the user which data type a new nested key should have.
type TypeChooser interface {
	ChooseType(ctx context.Context) (models.DataType, error)
}

// TypeChooserFunc adapts a function to the TypeChooser interface.
type TypeChooserFunc func(ctx context.Context) (models.DataType, error)

// ChooseType calls f(ctx).
func (f TypeChooserFunc) ChooseType(ctx context.Context) (models.DataType, error) {
	return f(ctx)
}

// FixedChoices answers with the given types in order, then reports
// ErrChoiceCancelled once they run out.
func FixedChoices(types ...models.DataType) TypeChooser {
	queue := append([]models.DataType(nil), types...)
	return TypeChooserFunc(func(ctx context.Context) (models.DataType, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if len(queue) == 0 {
			return "", ErrChoiceCancelled
		}
		dt := queue[0]
		queue = queue[1:]
		return dt, nil
	})
}
