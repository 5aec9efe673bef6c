package models_test

import (
	"github.com/google/uuid"
	"github.com/reckon-ledger/reckon/internal/importer/helpers"
	"github.com/reckon-ledger/reckon/internal/models"
	"github.com/reckon-ledger/reckon/internal/types"
	"github.com/shopspring/decimal"
)

func decimalFromString(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (suite *TestSuiteStandard) TestRecordNegativeAmount() {
	err := models.DB.Create(&models.Record{Amount: decimalFromString("-4.50")}).Error
	suite.Assert().ErrorIs(err, models.ErrAmountNegative)
}

func (suite *TestSuiteStandard) TestRecordUnknownKind() {
	err := models.DB.Create(&models.Record{Amount: decimalFromString("4.50"), Kind: "refund"}).Error
	suite.Assert().ErrorIs(err, models.ErrKindUnknown)
}

func (suite *TestSuiteStandard) TestRecordImportHash() {
	r := suite.createTestRecord(models.Record{
		Date:        types.MustParseDate("2024-03-01"),
		Amount:      decimalFromString("4.5"),
		Description: "  Coffee   Shop ",
		Currency:    "eur",
		Kind:        models.KindExpense,
	})

	suite.Assert().Equal("Coffee   Shop", r.Description)
	suite.Assert().Equal("EUR", r.Currency)
	suite.Assert().Equal(helpers.Signature(types.MustParseDate("2024-03-01"), decimalFromString("4.50"), "coffee shop", "EUR"), r.ImportHash)

	// The hash follows changes to the record
	r.Amount = decimalFromString("5")
	suite.Require().Nil(models.DB.Save(&r).Error)

	var reloaded models.Record
	suite.Require().Nil(models.DB.First(&reloaded, r.ID).Error)
	suite.Assert().Equal(helpers.Signature(r.Date, decimalFromString("5"), "Coffee Shop", "EUR"), reloaded.ImportHash)
	suite.Assert().True(reloaded.Amount.Equal(decimalFromString("5")))
	suite.Assert().Equal("2024-03-01", reloaded.Date.String())
}

func (suite *TestSuiteStandard) TestRecordDefaults() {
	nilID := uuid.Nil
	r := suite.createTestRecord(models.Record{
		Amount:     decimalFromString("1"),
		CategoryID: &nilID,
		LinkRole:   models.LinkRoleSource,
	})

	suite.Assert().Equal(models.KindOther, r.Kind)
	suite.Assert().False(r.Date.IsZero())
	suite.Assert().Nil(r.CategoryID)
	suite.Assert().Equal(models.LinkRoleNone, r.LinkRole, "Unlinked records cannot have a link role")
}

func (suite *TestSuiteStandard) TestRecordLinkRoleValidation() {
	group := uuid.New()

	err := models.DB.Create(&models.Record{Amount: decimalFromString("1"), LinkGroupID: &group}).Error
	suite.Assert().ErrorIs(err, models.ErrLinkRoleUnknown)

	r := suite.createTestRecord(models.Record{Amount: decimalFromString("1"), LinkGroupID: &group, LinkRole: models.LinkRoleAllocation})
	suite.Assert().True(r.Linked())
}

func (suite *TestSuiteStandard) TestRecordWithCategory() {
	c := suite.createTestCategory(models.Category{Name: "Coffee"})
	r := suite.createTestRecord(models.Record{Amount: decimalFromString("2"), CategoryID: &c.ID})

	var reloaded models.Record
	suite.Require().Nil(models.DB.Preload("Category").First(&reloaded, r.ID).Error)
	suite.Assert().Equal("Coffee", reloaded.Category.Name)
}

func (suite *TestSuiteStandard) TestRecordSignedAmount() {
	tests := []struct {
		kind models.Kind
		want string
	}{
		{models.KindIncome, "10"},
		{models.KindExpense, "-10"},
		{models.KindTax, "-10"},
		{models.KindDonation, "-10"},
		{models.KindTransfer, "0"},
		{models.KindOther, "0"},
	}

	for _, tt := range tests {
		r := models.Record{Amount: decimalFromString("10"), Kind: tt.kind}
		suite.Assert().True(decimalFromString(tt.want).Equal(r.SignedAmount()), "kind %s: %s", tt.kind, r.SignedAmount())
	}
}
