package partner_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"declara/internal/domain"
	"declara/internal/partner"
	"declara/mocks"
)

var testTenantID = uuid.MustParse("cccccccc-0000-0000-0000-000000000001")

func testMatcherConfig() partner.Config {
	return partner.Config{
		FuzzyThreshold: 85,
		AmbiguityGap:   5,
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Acme Co., Ltd.  ", "ACME CO LTD"},
		{"SMITH & SONS (UK)", "SMITH AND SONS UK"},
		{"O'Brien/Partners - Trading", "OBRIEN PARTNERS TRADING"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, partner.Normalize(tc.in), tc.in)
	}
}

func TestMatchEmptyNameIsManual(t *testing.T) {
	repo := new(mocks.MockPartnerRepo)
	m := partner.NewMatcher(repo, testMatcherConfig())

	match := m.Match(context.Background(), testTenantID, "   ", "", domain.PartnerExporter, nil)

	assert.Equal(t, domain.MatchManual, match.MatchMethod)
	assert.Nil(t, match.MatchedPartnerID)
	assert.Nil(t, match.Score)
	repo.AssertNotCalled(t, "GetByNormalizedName", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMatchExact(t *testing.T) {
	p := &domain.Partner{ID: uuid.New(), TenantID: testTenantID, PartnerType: domain.PartnerExporter, Name: "ACME CO., LTD"}
	repo := new(mocks.MockPartnerRepo)
	repo.On("GetByNormalizedName", mock.Anything, testTenantID, domain.PartnerExporter, "ACME CO LTD").Return(p, nil)
	m := partner.NewMatcher(repo, testMatcherConfig())

	match := m.Match(context.Background(), testTenantID, "Acme Co., Ltd.", "", domain.PartnerExporter, nil)

	assert.Equal(t, domain.MatchExact, match.MatchMethod)
	assert.Equal(t, &p.ID, match.MatchedPartnerID)
	assert.NotNil(t, match.Score)
	assert.Equal(t, 100.0, *match.Score)
	assert.Equal(t, "Acme Co., Ltd.", match.ExtractedName)
}

func TestMatchAlias(t *testing.T) {
	partnerID := uuid.New()
	repo := new(mocks.MockPartnerRepo)
	repo.On("GetByNormalizedName", mock.Anything, testTenantID, domain.PartnerExporter, "ACME SHA").
		Return(nil, domain.ErrPartnerNotFound)
	repo.On("GetAlias", mock.Anything, testTenantID, "ACME SHA").
		Return(&domain.PartnerAlias{ID: uuid.New(), PartnerID: partnerID, NormalizedAlias: "ACME SHA"}, nil)
	m := partner.NewMatcher(repo, testMatcherConfig())

	match := m.Match(context.Background(), testTenantID, "ACME SHA", "", domain.PartnerExporter, nil)

	assert.Equal(t, domain.MatchAlias, match.MatchMethod)
	assert.Equal(t, &partnerID, match.MatchedPartnerID)
	assert.Equal(t, 100.0, *match.Score)
}

func TestMatchFuzzyCorporateSuffixVariants(t *testing.T) {
	p := domain.Partner{ID: uuid.New(), TenantID: testTenantID, PartnerType: domain.PartnerExporter, Name: "ACME COMPANY LIMITED"}
	far := domain.Partner{ID: uuid.New(), TenantID: testTenantID, PartnerType: domain.PartnerExporter, Name: "ZENITH TRADING CORP"}
	repo := new(mocks.MockPartnerRepo)
	repo.On("GetByNormalizedName", mock.Anything, testTenantID, domain.PartnerExporter, "ACME CO LTD").
		Return(nil, domain.ErrPartnerNotFound)
	repo.On("GetAlias", mock.Anything, testTenantID, "ACME CO LTD").
		Return(nil, domain.ErrNotFound)
	repo.On("ListByType", mock.Anything, testTenantID, domain.PartnerExporter).
		Return([]domain.Partner{far, p}, nil)
	m := partner.NewMatcher(repo, testMatcherConfig())

	match := m.Match(context.Background(), testTenantID, "ACME CO., LTD", "", domain.PartnerExporter, nil)

	// "COMPANY LIMITED" and "CO LTD" canonicalize to the same tokens.
	assert.Equal(t, domain.MatchFuzzy, match.MatchMethod)
	assert.Equal(t, &p.ID, match.MatchedPartnerID)
	assert.Equal(t, 100.0, *match.Score)
}

func TestMatchBelowThresholdIsManual(t *testing.T) {
	far := domain.Partner{ID: uuid.New(), TenantID: testTenantID, PartnerType: domain.PartnerExporter, Name: "ZENITH TRADING CORP"}
	repo := new(mocks.MockPartnerRepo)
	repo.On("GetByNormalizedName", mock.Anything, testTenantID, domain.PartnerExporter, "ACME CO LTD").
		Return(nil, domain.ErrPartnerNotFound)
	repo.On("GetAlias", mock.Anything, testTenantID, "ACME CO LTD").
		Return(nil, domain.ErrNotFound)
	repo.On("ListByType", mock.Anything, testTenantID, domain.PartnerExporter).
		Return([]domain.Partner{far}, nil)
	m := partner.NewMatcher(repo, testMatcherConfig())

	match := m.Match(context.Background(), testTenantID, "ACME CO., LTD", "", domain.PartnerExporter, nil)

	assert.Equal(t, domain.MatchManual, match.MatchMethod)
	assert.Nil(t, match.MatchedPartnerID)
	assert.Nil(t, match.Score)
}

func TestMatchAmbiguousCandidatesAreManual(t *testing.T) {
	a := domain.Partner{ID: uuid.New(), TenantID: testTenantID, PartnerType: domain.PartnerExporter, Name: "ACME INTERNATIONAL TRADING CO LTD A"}
	b := domain.Partner{ID: uuid.New(), TenantID: testTenantID, PartnerType: domain.PartnerExporter, Name: "ACME INTERNATIONAL TRADING CO LTD B"}
	repo := new(mocks.MockPartnerRepo)
	repo.On("GetByNormalizedName", mock.Anything, testTenantID, domain.PartnerExporter, "ACME INTERNATIONAL TRADING CO LTD").
		Return(nil, domain.ErrPartnerNotFound)
	repo.On("GetAlias", mock.Anything, testTenantID, "ACME INTERNATIONAL TRADING CO LTD").
		Return(nil, domain.ErrNotFound)
	repo.On("ListByType", mock.Anything, testTenantID, domain.PartnerExporter).
		Return([]domain.Partner{a, b}, nil)
	m := partner.NewMatcher(repo, testMatcherConfig())

	// Both candidates score identically above threshold; with no address to
	// break the tie the match stays manual.
	match := m.Match(context.Background(), testTenantID, "ACME INTERNATIONAL TRADING CO., LTD", "", domain.PartnerExporter, nil)

	assert.Equal(t, domain.MatchManual, match.MatchMethod)
	assert.Nil(t, match.MatchedPartnerID)
}

func TestMatchRepositoryErrorDegradesToManual(t *testing.T) {
	repo := new(mocks.MockPartnerRepo)
	repo.On("GetByNormalizedName", mock.Anything, testTenantID, domain.PartnerExporter, "ACME CO LTD").
		Return(nil, errors.New("db down"))
	m := partner.NewMatcher(repo, testMatcherConfig())

	match := m.Match(context.Background(), testTenantID, "ACME CO., LTD", "", domain.PartnerExporter, nil)

	assert.Equal(t, domain.MatchManual, match.MatchMethod)
	assert.Nil(t, match.MatchedPartnerID)
	repo.AssertNotCalled(t, "GetAlias", mock.Anything, mock.Anything, mock.Anything)
}

func TestMatchAliasResolverRewritesLookup(t *testing.T) {
	p := &domain.Partner{ID: uuid.New(), TenantID: testTenantID, PartnerType: domain.PartnerExporter, Name: "ACME CO LTD SHANGHAI"}
	repo := new(mocks.MockPartnerRepo)
	repo.On("GetByNormalizedName", mock.Anything, testTenantID, domain.PartnerExporter, "ACME CO LTD SHANGHAI").
		Return(p, nil)
	m := partner.NewMatcher(repo, testMatcherConfig())

	aliases := func(normalized string) (string, bool) {
		if normalized == "ACME CO LTD" {
			return "ACME CO LTD SHANGHAI", true
		}
		return "", false
	}
	match := m.Match(context.Background(), testTenantID, "Acme Co., Ltd.", "", domain.PartnerExporter, aliases)

	assert.Equal(t, domain.MatchExact, match.MatchMethod)
	assert.Equal(t, &p.ID, match.MatchedPartnerID)
}
