package rules_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"declara/internal/domain"
	"declara/internal/rules"
	"declara/mocks"
)

func snapshot(t *testing.T, active []domain.CustomerRule) *rules.RuleSet {
	t.Helper()
	ruleRepo := new(mocks.MockCustomerRuleRepo)
	ruleRepo.On("ListActive", mock.Anything, testTenantID, testSig).Return(active, nil)
	rs, err := rules.NewApplier(ruleRepo).Snapshot(context.Background(), testTenantID, testSig)
	assert.NoError(t, err)
	return rs
}

func fieldRule(ruleType domain.RuleType, pattern, value string, confidence float64) domain.CustomerRule {
	return domain.CustomerRule{
		ID:          uuid.New(),
		TenantID:    testTenantID,
		CustomerSig: testSig,
		RuleType:    ruleType,
		Category:    domain.CategoryParty,
		FieldName:   domain.FieldExporterName,
		Pattern:     pattern,
		Value:       value,
		Confidence:  confidence,
		IsActive:    true,
	}
}

func TestSnapshotEmptyCustomerSig(t *testing.T) {
	ruleRepo := new(mocks.MockCustomerRuleRepo)
	rs, err := rules.NewApplier(ruleRepo).Snapshot(context.Background(), testTenantID, "")

	assert.NoError(t, err)
	assert.Zero(t, rs.Len())
	ruleRepo.AssertNotCalled(t, "ListActive", mock.Anything, mock.Anything, mock.Anything)
}

func TestSnapshotWrapsRepositoryError(t *testing.T) {
	ruleRepo := new(mocks.MockCustomerRuleRepo)
	ruleRepo.On("ListActive", mock.Anything, testTenantID, testSig).Return(nil, errors.New("db down"))

	rs, err := rules.NewApplier(ruleRepo).Snapshot(context.Background(), testTenantID, testSig)

	assert.Error(t, err)
	assert.NotNil(t, rs)
	assert.Zero(t, rs.Len())
}

func TestOverrideFieldMappingIsCaseInsensitive(t *testing.T) {
	rs := snapshot(t, []domain.CustomerRule{
		fieldRule(domain.RuleFieldMapping, "ACME", "ACME CO., LTD", 0.9),
	})

	v, ok := rs.Override(domain.CategoryParty, domain.FieldExporterName, "  acme ")
	assert.True(t, ok)
	assert.Equal(t, "ACME CO., LTD", v)

	v, ok = rs.Override(domain.CategoryParty, domain.FieldExporterName, "OTHER")
	assert.False(t, ok)
	assert.Equal(t, "OTHER", v)
}

func TestOverrideDefaultValueFiresOnlyWhenEmpty(t *testing.T) {
	rs := snapshot(t, []domain.CustomerRule{
		fieldRule(domain.RuleDefaultValue, "", "DEFAULT EXPORTER", 0.8),
	})

	v, ok := rs.Override(domain.CategoryParty, domain.FieldExporterName, "")
	assert.True(t, ok)
	assert.Equal(t, "DEFAULT EXPORTER", v)

	v, ok = rs.Override(domain.CategoryParty, domain.FieldExporterName, "EXTRACTED")
	assert.False(t, ok)
	assert.Equal(t, "EXTRACTED", v)
}

func TestOverrideRegexRewrite(t *testing.T) {
	rs := snapshot(t, []domain.CustomerRule{
		fieldRule(domain.RuleRegexOverride, `^ACME\s+(\w+)$`, "ACME $1 DIVISION", 0.9),
	})

	v, ok := rs.Override(domain.CategoryParty, domain.FieldExporterName, "ACME STEEL")
	assert.True(t, ok)
	assert.Equal(t, "ACME STEEL DIVISION", v)
}

func TestOverrideHighestConfidenceRuleWins(t *testing.T) {
	rs := snapshot(t, []domain.CustomerRule{
		fieldRule(domain.RuleFieldMapping, "ACME", "LOW CONFIDENCE VALUE", 0.4),
		fieldRule(domain.RuleFieldMapping, "ACME", "HIGH CONFIDENCE VALUE", 0.95),
	})

	v, ok := rs.Override(domain.CategoryParty, domain.FieldExporterName, "ACME")
	assert.True(t, ok)
	assert.Equal(t, "HIGH CONFIDENCE VALUE", v)
}

func TestOverrideScopedToCategoryAndField(t *testing.T) {
	rs := snapshot(t, []domain.CustomerRule{
		fieldRule(domain.RuleFieldMapping, "ACME", "ACME CO., LTD", 0.9),
	})

	v, ok := rs.Override(domain.CategoryHeader, domain.FieldExporterName, "ACME")
	assert.False(t, ok)
	assert.Equal(t, "ACME", v)

	v, ok = rs.Override(domain.CategoryParty, domain.FieldImporterName, "ACME")
	assert.False(t, ok)
	assert.Equal(t, "ACME", v)
}

func TestSnapshotSkipsUncompilableRegex(t *testing.T) {
	rs := snapshot(t, []domain.CustomerRule{
		fieldRule(domain.RuleRegexOverride, `[unclosed`, "X", 0.9),
		fieldRule(domain.RuleFieldMapping, "ACME", "ACME CO., LTD", 0.5),
	})

	assert.Equal(t, 1, rs.Len())
	v, ok := rs.Override(domain.CategoryParty, domain.FieldExporterName, "ACME")
	assert.True(t, ok)
	assert.Equal(t, "ACME CO., LTD", v)
}

func TestPartnerAliasLookup(t *testing.T) {
	alias := fieldRule(domain.RulePartnerAlias, "ACME CO LTD", "ACME CO LTD SHANGHAI", 0.9)
	rs := snapshot(t, []domain.CustomerRule{alias})

	v, ok := rs.PartnerAlias("ACME CO LTD")
	assert.True(t, ok)
	assert.Equal(t, "ACME CO LTD SHANGHAI", v)

	_, ok = rs.PartnerAlias("UNKNOWN NAME")
	assert.False(t, ok)
}
