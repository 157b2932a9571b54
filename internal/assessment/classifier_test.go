package assessment

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/career-leader/internal/domain"
)

func testQuestions() []domain.Question {
	return []domain.Question{
		{ID: "Q1", Dimension: domain.DimensionEI, SideA: "Introvert", SideB: "Extrovert", Interests: []string{"research", "writing"}},
		{ID: "Q2", Dimension: domain.DimensionSN, SideA: "N", SideB: "S", Interests: []string{"design"}},
		{ID: "Q3", Dimension: domain.DimensionTF, SideA: "T", SideB: "F", Interests: []string{"data", "research"}},
		{ID: "Q4", Dimension: domain.DimensionJP, SideA: "J", SideB: "P"},
		{ID: "Q5", Dimension: domain.DimensionEI, SideA: "Introvert", SideB: "Extrovert", Interests: []string{"people"}},
	}
}

func num(qid string, n float64) domain.Answer {
	return domain.Answer{QuestionID: qid, Value: domain.NumberAnswer(n)}
}

func str(qid, s string) domain.Answer {
	return domain.Answer{QuestionID: qid, Value: domain.StringAnswer(s)}
}

func TestScore_EmptyAnswersDefaultToSideA(t *testing.T) {
	p := Score(nil, testQuestions())
	assert.Equal(t, "INTJ", p.Personality)
	assert.Empty(t, p.Interests)
	assert.Empty(t, p.MissingDimensions)
	for _, d := range domain.Dimensions {
		assert.Equal(t, 0, p.DimensionScores[d], "dimension %s", d)
	}
	assert.Equal(t, "Introvert", p.Poles[domain.DimensionEI])
}

func TestScore_AllNeutralDefaultsToSideA(t *testing.T) {
	answers := []domain.Answer{num("Q1", 3), num("Q2", 3), num("Q3", 3), num("Q4", 3)}
	p := Score(answers, testQuestions())
	assert.Equal(t, "INTJ", p.Personality)
	assert.Empty(t, p.Interests)
}

func TestScore_LikertExample(t *testing.T) {
	p := Score([]domain.Answer{num("Q1", 5)}, testQuestions())
	assert.Equal(t, 2, p.DimensionScores[domain.DimensionEI])
	assert.Equal(t, "Introvert", p.Poles[domain.DimensionEI])
	assert.Equal(t, byte('I'), p.Personality[0])
}

func TestScore_NegativeResolvesToSideB(t *testing.T) {
	answers := []domain.Answer{num("Q1", 1), str("Q2", "B"), str("Q3", "f"), num("Q4", 2)}
	p := Score(answers, testQuestions())
	assert.Equal(t, "ESFP", p.Personality)
	assert.Equal(t, -2, p.DimensionScores[domain.DimensionEI])
	assert.Equal(t, -1, p.DimensionScores[domain.DimensionSN])
	assert.Equal(t, -1, p.DimensionScores[domain.DimensionTF])
	assert.Equal(t, -1, p.DimensionScores[domain.DimensionJP])
}

func TestScore_ClampsOutOfRange(t *testing.T) {
	qs := testQuestions()
	high := Score([]domain.Answer{num("Q1", 999)}, qs)
	five := Score([]domain.Answer{num("Q1", 5)}, qs)
	assert.Equal(t, five, high)

	low := Score([]domain.Answer{num("Q1", -50)}, qs)
	one := Score([]domain.Answer{num("Q1", 1)}, qs)
	assert.Equal(t, one, low)

	inf := Score([]domain.Answer{num("Q1", math.Inf(1))}, qs)
	assert.Equal(t, five, inf)
}

func TestScore_DecodedOverflowClampsAndWeightsInterests(t *testing.T) {
	var answers []domain.Answer
	require.NoError(t, json.Unmarshal([]byte(`[{"questionId":"Q1","answer":1e400},{"questionId":"Q3","answer":"-1e400"}]`), &answers))

	p := Score(answers, testQuestions())
	assert.Equal(t, 2, p.DimensionScores[domain.DimensionEI])
	assert.Equal(t, -2, p.DimensionScores[domain.DimensionTF])
	assert.Equal(t, "INFJ", p.Personality)
	assert.Equal(t, []string{"research", "writing", "data"}, p.Interests)
}

func TestSignedValue(t *testing.T) {
	c := New()
	q := testQuestions()[0]
	tests := []struct {
		name  string
		value domain.AnswerValue
		want  int
	}{
		{"likert 5", domain.NumberAnswer(5), 2},
		{"likert 4", domain.NumberAnswer(4), 1},
		{"likert 3", domain.NumberAnswer(3), 0},
		{"likert 2", domain.NumberAnswer(2), -1},
		{"likert 1", domain.NumberAnswer(1), -2},
		{"rounds half up", domain.NumberAnswer(3.5), 1},
		{"rounds down", domain.NumberAnswer(2.4), -1},
		{"nan is inert", domain.NumberAnswer(math.NaN()), 0},
		{"token A", domain.StringAnswer("A"), 1},
		{"token a", domain.StringAnswer(" a "), 1},
		{"token B", domain.StringAnswer("B"), -1},
		{"label A", domain.StringAnswer("introvert"), 1},
		{"label B", domain.StringAnswer("EXTROVERT"), -1},
		{"numeric string", domain.StringAnswer("5"), 2},
		{"numeric string clamped", domain.StringAnswer("42"), 2},
		{"negative numeric string", domain.StringAnswer("-7"), -2},
		{"decimal string", domain.StringAnswer("1.6"), -1},
		{"overflow clamps high", domain.NumberAnswer(math.Inf(1)), 2},
		{"overflow clamps low", domain.NumberAnswer(math.Inf(-1)), -2},
		{"overflow string", domain.StringAnswer("1e400"), 2},
		{"negative overflow string", domain.StringAnswer("-1e400"), -2},
		{"garbage", domain.StringAnswer("maybe"), 0},
		{"empty string", domain.StringAnswer(""), 0},
		{"none", domain.AnswerValue{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.SignedValue(tt.value, q))
		})
	}
}

func TestScore_TokenAndLabelAreEquivalent(t *testing.T) {
	qs := testQuestions()
	byToken := Score([]domain.Answer{str("Q1", "A")}, qs)
	byLabel := Score([]domain.Answer{str("Q1", "Introvert")}, qs)
	assert.Equal(t, byToken, byLabel)
}

func TestScore_UnknownQuestionsIgnored(t *testing.T) {
	p := Score([]domain.Answer{num("nope", 1), str("", "B")}, testQuestions())
	assert.Equal(t, "INTJ", p.Personality)
	assert.Empty(t, p.Interests)
}

func TestScore_ZeroValueContributesNoInterest(t *testing.T) {
	answers := []domain.Answer{num("Q1", 3), str("Q2", "gibberish"), {QuestionID: "Q3"}}
	p := Score(answers, testQuestions())
	assert.Empty(t, p.Interests)
	assert.Empty(t, p.InterestWeights)
}

func TestScore_InterestsWeightedByMagnitude(t *testing.T) {
	answers := []domain.Answer{
		num("Q1", 1),   // -2: research 2, writing 2
		str("Q3", "T"), // +1: data 1, research 1
		str("Q2", "S"), // -1: design 1
		num("Q5", 4),   // +1: people 1
	}
	p := Score(answers, testQuestions())
	require.Len(t, p.InterestWeights, 5)
	assert.Equal(t, []string{"research", "writing", "design", "data", "people"}, p.Interests)
	assert.Equal(t, domain.InterestWeight{Tag: "research", Weight: 3}, p.InterestWeights[0])
	assert.Equal(t, domain.InterestWeight{Tag: "writing", Weight: 2}, p.InterestWeights[1])
}

func TestScore_InterestTiesFollowCatalogOrder(t *testing.T) {
	// answer order is reversed relative to the catalog
	answers := []domain.Answer{str("Q5", "A"), str("Q3", "A"), str("Q2", "A"), str("Q1", "A")}
	p := Score(answers, testQuestions())
	// research has weight 2, all others 1 in catalog first-seen order
	assert.Equal(t, []string{"research", "writing", "design", "data", "people"}, p.Interests)
}

func TestScore_DuplicatesAccumulate(t *testing.T) {
	p := Score([]domain.Answer{num("Q4", 2), num("Q4", 5), num("Q4", 5)}, testQuestions())
	assert.Equal(t, 3, p.DimensionScores[domain.DimensionJP])
}

func TestScore_TieAfterRealAnswersFavorsSideA(t *testing.T) {
	p := Score([]domain.Answer{str("Q1", "B"), str("Q5", "A")}, testQuestions())
	assert.Equal(t, 0, p.DimensionScores[domain.DimensionEI])
	assert.Equal(t, "I", p.Personality[:1])
}

func TestScore_MissingDimensionUsesSentinel(t *testing.T) {
	qs := testQuestions()[:3] // no JP question
	p := Score([]domain.Answer{num("Q1", 1)}, qs)
	assert.Equal(t, "ENTX", p.Personality)
	assert.Equal(t, []domain.Dimension{domain.DimensionJP}, p.MissingDimensions)
	_, ok := p.Poles[domain.DimensionJP]
	assert.False(t, ok)
}

func TestScore_EmptyCatalog(t *testing.T) {
	p := Score([]domain.Answer{num("Q1", 5)}, nil)
	assert.Equal(t, "XXXX", p.Personality)
	assert.Len(t, p.MissingDimensions, 4)
	assert.NotNil(t, p.Interests)
}

func TestScore_CodeAlwaysFourLettersFromPoles(t *testing.T) {
	qs := testQuestions()
	allowed := map[rune]bool{'I': true, 'E': true, 'N': true, 'S': true, 'T': true, 'F': true, 'J': true, 'P': true}
	inputs := [][]domain.Answer{
		nil,
		{num("Q1", 5), num("Q2", 1), num("Q3", 2), num("Q4", 4)},
		{str("Q1", "x"), str("Q2", "A"), str("Q4", "b")},
		{num("Q5", -3), num("Q1", 1e9)},
	}
	for _, in := range inputs {
		p := Score(in, qs)
		require.Len(t, p.Personality, 4)
		for _, r := range p.Personality {
			assert.True(t, allowed[r], "unexpected letter %q in %s", r, p.Personality)
		}
	}
}

func TestScore_DoesNotMutateCatalog(t *testing.T) {
	qs := testQuestions()
	before := testQuestions()
	_ = Score([]domain.Answer{num("Q1", 5), str("Q3", "B")}, qs)
	assert.Equal(t, before, qs)
}

func TestWithLikertScale(t *testing.T) {
	c := New(WithLikertScale(1, 7))
	assert.Equal(t, LikertScale{Min: 1, Max: 7}, c.Scale())
	q := testQuestions()[0]
	assert.Equal(t, 3, c.SignedValue(domain.NumberAnswer(7), q))
	assert.Equal(t, -3, c.SignedValue(domain.NumberAnswer(-1), q))

	ignored := New(WithLikertScale(5, 5))
	assert.Equal(t, DefaultLikertScale, ignored.Scale())
}

func TestCheckCatalog(t *testing.T) {
	require.NoError(t, CheckCatalog(testQuestions()))

	err := CheckCatalog(testQuestions()[:2])
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCatalogIncomplete))
	assert.Contains(t, err.Error(), "TF,JP")
}

func TestCodes(t *testing.T) {
	codes := Codes(testQuestions())
	require.Len(t, codes, 16)
	assert.Contains(t, codes, "INTJ")
	assert.Contains(t, codes, "ESFP")
	assert.Equal(t, "ENFJ", codes[0])

	partial := Codes(testQuestions()[:2])
	assert.Equal(t, []string{"ENXX", "ESXX", "INXX", "ISXX"}, partial)
}
