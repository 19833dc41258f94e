package ingest

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/finweave/finweave/internal/common"
	"github.com/finweave/finweave/internal/model"
)

// OFX statements decode into the same raw-table shape as spreadsheet
// uploads, so bank exports flow through the structure detector unchanged.
var ofxHeaders = []string{"Date", "Description", "Amount", "Category"}

var (
	severityCaseRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	openTagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocessOFX fixes common formatting issues in real-world OFX files:
// leading whitespace, mixed-case SEVERITY values, and SGML tags missing
// their closing bracket.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityCaseRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	return openTagFixRegex.ReplaceAllString(content, "$1>")
}

// ReadOFX decodes an OFX/QFX bank export into a raw table. Amounts keep
// their sign: debits stay negative so downstream classification sees costs.
func ReadOFX(r io.Reader, fileName string) (model.RawTable, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return model.RawTable{}, fmt.Errorf("failed to read OFX %s: %w", fileName, err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return model.RawTable{}, fmt.Errorf("failed to parse OFX %s: %w", fileName, err)
	}

	var rows []map[string]string
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			for _, txn := range stmt.BankTranList.Transactions {
				rows = append(rows, convertOFXTransaction(txn))
			}
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			for _, txn := range stmt.BankTranList.Transactions {
				rows = append(rows, convertOFXTransaction(txn))
			}
		}
	}

	if len(rows) == 0 {
		return model.RawTable{}, common.NewUserError(
			fmt.Sprintf("%s contains no transactions", fileName), common.ErrEmptyInput)
	}

	return model.RawTable{
		FileName: fileName,
		Headers:  ofxHeaders,
		Rows:     rows,
	}, nil
}

func convertOFXTransaction(txn ofxgo.Transaction) map[string]string {
	amount, _ := txn.TrnAmt.Float64()

	description := string(txn.Name)
	if txn.Payee != nil && txn.Payee.Name != "" {
		description = string(txn.Payee.Name)
	} else if txn.Memo != "" && description == "" {
		description = string(txn.Memo)
	}

	return map[string]string{
		"Date":        txn.DtPosted.Time.Format("2006-01-02"),
		"Description": strings.TrimSpace(description),
		"Amount":      strconv.FormatFloat(amount, 'f', 2, 64),
		"Category":    fmt.Sprintf("%v", txn.TrnType),
	}
}
