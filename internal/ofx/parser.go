// Package ofx parses OFX/QFX bank statements into movement candidates for
// bulk import. The sign of each statement amount decides income versus
// expense; amounts are always stored as absolute values.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/gastos-cli/gastos/internal/model"
)

// Candidate is a statement line ready to become a movement. FiTID is the
// bank's transaction ID, kept only for deduplication across repeated imports.
type Candidate struct {
	DTO       model.MovimientoCreateDTO
	FiTID     string
	AccountID string
}

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	// Trim any leading whitespace or blank lines before the header
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, func(match string) string {
		return strings.ToUpper(match)
	})

	// Fix missing closing angle brackets in SGML-style OFX files
	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile parses an OFX/QFX file and returns movement candidates.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]Candidate, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var candidates []Candidate
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			candidates = append(candidates, p.statementCandidates(stmt.BankTranList, string(stmt.BankAcctFrom.AcctID))...)
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			candidates = append(candidates, p.statementCandidates(stmt.BankTranList, string(stmt.CCAcctFrom.AcctID))...)
		}
	}

	slog.Info("Parsed OFX file",
		"candidates", len(candidates),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return candidates, nil
}

func (p *Parser) statementCandidates(list *ofxgo.TransactionList, accountID string) []Candidate {
	if list == nil {
		return nil
	}

	candidates := make([]Candidate, 0, len(list.Transactions))
	for _, ofxTx := range list.Transactions {
		candidates = append(candidates, p.convertTransaction(ofxTx, accountID))
	}
	return candidates
}

// convertTransaction maps one OFX transaction to a movement candidate. OFX
// uses negative amounts for debits, so the sign picks the movement type and
// the stored amount is always positive.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, accountID string) Candidate {
	amount, _ := ofxTx.TrnAmt.Float64()

	tipo := model.TipoIngreso
	if amount < 0 {
		tipo = model.TipoGasto
		amount = -amount
	}

	return Candidate{
		FiTID:     string(ofxTx.FiTID),
		AccountID: accountID,
		DTO: model.MovimientoCreateDTO{
			Descripcion:     p.extractDescription(ofxTx),
			Monto:           amount,
			Tipo:            tipo,
			FechaMovimiento: ofxTx.DtPosted.Time,
		},
	}
}

// extractDescription tries to get a clean merchant description from OFX data.
func (p *Parser) extractDescription(tx ofxgo.Transaction) string {
	// Prefer PAYEE if available (cleaner merchant name)
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)

	// Use MEMO field if NAME is generic
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}

	name = strings.TrimSpace(name)

	// Remove common prefixes
	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}

	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Clean up date patterns like "MM/DD" at the beginning
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

// isGenericDescription checks if a transaction name is too generic.
func isGenericDescription(name string) bool {
	generic := []string{
		"DEBIT",
		"CREDIT",
		"PURCHASE",
		"PAYMENT",
		"POS TRANSACTION",
		"CARD PURCHASE",
	}

	upperName := strings.ToUpper(name)
	for _, g := range generic {
		if upperName == g {
			return true
		}
	}
	return false
}

// GetAccounts extracts unique account IDs from the OFX file.
func (p *Parser) GetAccounts(ctx context.Context, reader io.Reader) ([]string, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	accountMap := make(map[string]bool)

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			if stmt.BankAcctFrom.AcctID != "" {
				accountMap[string(stmt.BankAcctFrom.AcctID)] = true
			}
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			if stmt.CCAcctFrom.AcctID != "" {
				accountMap[string(stmt.CCAcctFrom.AcctID)] = true
			}
		}
	}

	var accounts []string
	for acct := range accountMap {
		accounts = append(accounts, acct)
	}

	return accounts, nil
}
