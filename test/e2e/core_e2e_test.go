//go:build e2e

package e2e_test

import (
	"net/http"
	"os"
	"testing"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type question struct {
	ID        string `json:"id"`
	Dimension string `json:"dimension"`
	SideA     string `json:"sideA"`
	SideB     string `json:"sideB"`
}

type recommendation struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Score            int    `json:"score"`
	PersonalityMatch bool   `json:"personalityMatch"`
}

type assessmentView struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Result  struct {
		Personality string   `json:"personality"`
		Interests   []string `json:"interests"`
	} `json:"result"`
	Recommendations []recommendation `json:"recommendations"`
}

// TestE2E_AssessmentFlow answers every question with its first pole, then
// reads the stored result back and asks for recommendations directly.
func TestE2E_AssessmentFlow(t *testing.T) {
	client := &http.Client{Timeout: 15 * time.Second}
	waitForAppReady(t, client, 60*time.Second)

	var qs []question
	resp := doJSON(t, client, http.MethodGet, "/v1/questions", nil, &qs, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, qs)

	first := map[string]rune{}
	answers := make([]map[string]any, 0, len(qs))
	for _, q := range qs {
		answers = append(answers, map[string]any{"questionId": q.ID, "answer": q.SideA})
		if _, ok := first[q.Dimension]; !ok {
			r, _ := utf8.DecodeRuneInString(q.SideA)
			first[q.Dimension] = unicode.ToUpper(r)
		}
	}
	want := string([]rune{first["EI"], first["SN"], first["TF"], first["JP"]})

	var view assessmentView
	resp = doJSON(t, client, http.MethodPost, "/v1/assessment", map[string]any{"answers": answers}, &view, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, view.Success)
	require.NotEmpty(t, view.ID)
	assert.Equal(t, want, view.Result.Personality)
	assert.Equal(t, "/v1/assessment/"+view.ID, resp.Header.Get("Location"))

	var stored assessmentView
	resp = doJSON(t, client, http.MethodGet, "/v1/assessment/"+view.ID, nil, &stored, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, view.Result.Personality, stored.Result.Personality)
	etag := resp.Header.Get("ETag")
	require.NotEmpty(t, etag)

	resp = doJSON(t, client, http.MethodGet, "/v1/assessment/"+view.ID, nil, nil, http.Header{"If-None-Match": {etag}})
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)

	var recs struct {
		Recommendations []recommendation `json:"recommendations"`
	}
	resp = doJSON(t, client, http.MethodPost, "/v1/recommend", map[string]any{
		"personality": want, "interests": view.Result.Interests, "limit": 3,
	}, &recs, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.LessOrEqual(t, len(recs.Recommendations), 3)
	for i := 1; i < len(recs.Recommendations); i++ {
		assert.GreaterOrEqual(t, recs.Recommendations[i-1].Score, recs.Recommendations[i].Score)
	}
}

func TestE2E_Errors(t *testing.T) {
	client := &http.Client{Timeout: 15 * time.Second}
	waitForAppReady(t, client, 60*time.Second)

	resp := doJSON(t, client, http.MethodGet, "/v1/assessment/does-not-exist", nil, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, client, http.MethodGet, "/v1/assessment/bad.id", nil, nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, client, http.MethodPost, "/v1/recommend", map[string]any{"limit": 500}, nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestE2E_AdminStats(t *testing.T) {
	if os.Getenv("ADMIN_USERNAME") == "" || os.Getenv("ADMIN_PASSWORD") == "" {
		t.Skip("admin credentials not configured")
	}
	client := &http.Client{Timeout: 15 * time.Second}
	waitForAppReady(t, client, 60*time.Second)

	req, err := http.NewRequest(http.MethodGet, baseURL+"/v1/admin/stats", nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err = http.NewRequest(http.MethodGet, baseURL+"/v1/admin/stats", nil)
	require.NoError(t, err)
	maybeBasicAuth(req)
	resp, err = client.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
