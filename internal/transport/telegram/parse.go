package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MiltonKlun/TickSnap/internal/domain"
)

const selectPrefix = "select"

// paymentCommand is a parsed free-text request:
// "<FirstName> <LastName> <InstallmentCount>".
type paymentCommand struct {
	FirstName    string
	LastName     string
	Installments int
}

// errNotACommand marks free text that doesn't even have the three-part shape;
// such messages are ignored silently, the /start greeting already explains
// the format.
var errNotACommand = fmt.Errorf("not a payment command")

func parsePaymentCommand(text string) (paymentCommand, error) {
	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) != 3 {
		return paymentCommand{}, errNotACommand
	}

	count, err := strconv.Atoi(parts[2])
	if err != nil || count <= 0 {
		return paymentCommand{}, fmt.Errorf("%w: installment count must be a whole number greater than 0", domain.ErrInvalidUserInput)
	}

	return paymentCommand{
		FirstName:    parts[0],
		LastName:     parts[1],
		Installments: count,
	}, nil
}

// selectionCallback round-trips through the inline keyboard as
// "select_<rowNumber>_<installmentCount>_<itemCode>". The item code is the
// remainder and may itself contain underscores.
type selectionCallback struct {
	Row          int
	Installments int
	ItemCode     string
}

func formatSelection(row, installments int, itemCode string) string {
	return fmt.Sprintf("%s_%d_%d_%s", selectPrefix, row, installments, itemCode)
}

func parseSelection(data string) (selectionCallback, error) {
	parts := strings.SplitN(data, "_", 4)
	if len(parts) != 4 || parts[0] != selectPrefix {
		return selectionCallback{}, fmt.Errorf("%w: malformed selection %q", domain.ErrInvalidUserInput, data)
	}

	row, err := strconv.Atoi(parts[1])
	if err != nil {
		return selectionCallback{}, fmt.Errorf("%w: bad row in selection %q", domain.ErrInvalidUserInput, data)
	}
	count, err := strconv.Atoi(parts[2])
	if err != nil {
		return selectionCallback{}, fmt.Errorf("%w: bad count in selection %q", domain.ErrInvalidUserInput, data)
	}

	// row 1 is the header, anything below is never selectable
	if row <= 1 || count <= 0 {
		return selectionCallback{}, fmt.Errorf("%w: selection %q out of range", domain.ErrInvalidUserInput, data)
	}

	return selectionCallback{Row: row, Installments: count, ItemCode: parts[3]}, nil
}
