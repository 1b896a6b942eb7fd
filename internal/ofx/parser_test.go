package ofx

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/gastos-cli/gastos/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Sample OFX data for testing.
const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-125.00
<FITID>2024012001
<NAME>Whole Foods Market
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240131120000[0:GMT]
<TRNAMT>2500.00
<FITID>2024013101
<NAME>PAYROLL DEPOSIT
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const sampleCreditCardOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-45.99
<FITID>CC2024011001
<NAME>AMAZON.COM*RT4Y7HG2
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-15.00
<FITID>CC2024011501
<NAME>NETFLIX.COM
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-500.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestParseFile(t *testing.T) {
	tests := []struct {
		name          string
		ofxData       string
		expectedCount int
		expectedError bool
	}{
		{
			name:          "valid bank statement",
			ofxData:       sampleBankOFX,
			expectedCount: 3,
			expectedError: false,
		},
		{
			name:          "valid credit card statement",
			ofxData:       sampleCreditCardOFX,
			expectedCount: 2,
			expectedError: false,
		},
		{
			name:          "invalid OFX data",
			ofxData:       "not valid OFX",
			expectedCount: 0,
			expectedError: true,
		},
		{
			name:          "empty OFX",
			ofxData:       "",
			expectedCount: 0,
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewParser()
			reader := strings.NewReader(tt.ofxData)

			candidates, err := parser.ParseFile(context.Background(), reader)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Len(t, candidates, tt.expectedCount)
			}
		})
	}
}

func TestParseBankStatement(t *testing.T) {
	parser := NewParser()
	reader := strings.NewReader(sampleBankOFX)

	candidates, err := parser.ParseFile(context.Background(), reader)
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	// Debits become expenses with the sign stripped
	c1 := candidates[0]
	assert.Equal(t, "2024011501", c1.FiTID)
	assert.Equal(t, "1234567890", c1.AccountID)
	assert.Equal(t, "STARBUCKS STORE #1234", c1.DTO.Descripcion)
	assert.Equal(t, model.TipoGasto, c1.DTO.Tipo)
	assert.Equal(t, 25.50, c1.DTO.Monto)
	// Compare just the date components, ignoring timezone
	assert.Equal(t, 2024, c1.DTO.FechaMovimiento.Year())
	assert.Equal(t, time.January, c1.DTO.FechaMovimiento.Month())
	assert.Equal(t, 15, c1.DTO.FechaMovimiento.Day())

	c2 := candidates[1]
	assert.Equal(t, "Whole Foods Market", c2.DTO.Descripcion)
	assert.Equal(t, model.TipoGasto, c2.DTO.Tipo)
	assert.Equal(t, 125.00, c2.DTO.Monto)

	// Positive amounts become income
	c3 := candidates[2]
	assert.Equal(t, "PAYROLL DEPOSIT", c3.DTO.Descripcion)
	assert.Equal(t, model.TipoIngreso, c3.DTO.Tipo)
	assert.Equal(t, 2500.00, c3.DTO.Monto)
}

func TestParseCreditCardStatement(t *testing.T) {
	parser := NewParser()
	reader := strings.NewReader(sampleCreditCardOFX)

	candidates, err := parser.ParseFile(context.Background(), reader)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	c1 := candidates[0]
	assert.Equal(t, "CC2024011001", c1.FiTID)
	assert.Equal(t, "AMAZON.COM*RT4Y7HG2", c1.DTO.Descripcion)
	assert.Equal(t, 45.99, c1.DTO.Monto)
	assert.Equal(t, "4111111111111111", c1.AccountID)

	c2 := candidates[1]
	assert.Equal(t, "CC2024011501", c2.FiTID)
	assert.Equal(t, "NETFLIX.COM", c2.DTO.Descripcion)
	assert.Equal(t, 15.00, c2.DTO.Monto)
}

func TestExtractDescription(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "remove POS prefix",
			input:    "POS PURCHASE STARBUCKS",
			expected: "STARBUCKS",
		},
		{
			name:     "remove DEBIT CARD prefix",
			input:    "DEBIT CARD PURCHASE WHOLE FOODS",
			expected: "WHOLE FOODS",
		},
		{
			name:     "keep clean name",
			input:    "NETFLIX.COM",
			expected: "NETFLIX.COM",
		},
		{
			name:     "trim whitespace",
			input:    "  AMAZON.COM  ",
			expected: "AMAZON.COM",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := ofxgo.Transaction{
				Name: ofxgo.String(tt.input),
			}
			result := parser.extractDescription(tx)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestGetAccounts(t *testing.T) {
	parser := NewParser()

	// Test with bank statement
	reader := strings.NewReader(sampleBankOFX)
	accounts, err := parser.GetAccounts(context.Background(), reader)
	require.NoError(t, err)
	assert.Contains(t, accounts, "1234567890")

	// Test with credit card statement
	reader = strings.NewReader(sampleCreditCardOFX)
	accounts, err = parser.GetAccounts(context.Background(), reader)
	require.NoError(t, err)
	assert.Contains(t, accounts, "4111111111111111")
}
