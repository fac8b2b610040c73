package telegram

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MiltonKlun/TickSnap/internal/domain"
)

func TestParsePaymentCommand(t *testing.T) {
	cmd, err := parsePaymentCommand("John Doe 3")
	require.NoError(t, err)
	assert.Equal(t, paymentCommand{FirstName: "John", LastName: "Doe", Installments: 3}, cmd)

	cmd, err = parsePaymentCommand("  Maria   Lopez   1 ")
	require.NoError(t, err)
	assert.Equal(t, paymentCommand{FirstName: "Maria", LastName: "Lopez", Installments: 1}, cmd)
}

func TestParsePaymentCommand_NotACommand(t *testing.T) {
	for _, text := range []string{"", "hello", "John Doe", "John Doe 3 extra"} {
		_, err := parsePaymentCommand(text)
		assert.True(t, errors.Is(err, errNotACommand), text)
	}
}

func TestParsePaymentCommand_BadCount(t *testing.T) {
	for _, text := range []string{"John Doe x", "John Doe 0", "John Doe -2", "John Doe 1.5"} {
		_, err := parsePaymentCommand(text)
		assert.ErrorIs(t, err, domain.ErrInvalidUserInput, text)
	}
}

func TestSelectionRoundTrip(t *testing.T) {
	data := formatSelection(17, 2, "HL-1")
	assert.Equal(t, "select_17_2_HL-1", data)

	sel, err := parseSelection(data)
	require.NoError(t, err)
	assert.Equal(t, selectionCallback{Row: 17, Installments: 2, ItemCode: "HL-1"}, sel)
}

func TestParseSelection_CodeWithUnderscores(t *testing.T) {
	sel, err := parseSelection("select_8_1_AB_CD_9")
	require.NoError(t, err)
	assert.Equal(t, 8, sel.Row)
	assert.Equal(t, 1, sel.Installments)
	assert.Equal(t, "AB_CD_9", sel.ItemCode)
}

func TestParseSelection_Invalid(t *testing.T) {
	cases := []string{
		"",
		"select_17_2",        // missing code
		"other_17_2_HL-1",    // wrong action
		"select_x_2_HL-1",    // bad row
		"select_17_y_HL-1",   // bad count
		"select_1_2_HL-1",    // header row
		"select_0_2_HL-1",    // below header
		"select_17_0_HL-1",   // zero installments
		"select_17_-1_HL-1",  // negative installments
	}
	for _, data := range cases {
		_, err := parseSelection(data)
		assert.ErrorIs(t, err, domain.ErrInvalidUserInput, data)
	}
}

func TestWorkflowErrorText(t *testing.T) {
	assert.Contains(t, workflowErrorText(domain.ErrPaymentUncertain), "Do not retry")
	assert.Contains(t, workflowErrorText(domain.ErrInvalidLedgerData), "Data error")
	assert.Contains(t, workflowErrorText(domain.ErrConnection), "Data source error")
	assert.Contains(t, workflowErrorText(errors.New("boom")), "unexpected")
}
