package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationKindTitle(t *testing.T) {
	assert.Equal(t, "Deployment", OperationKindDeployment.Title())
	assert.Equal(t, "Promotion", OperationKindPromotion.Title())
	assert.Equal(t, "", OperationKind("").Title())
}

func TestVocabularyClassify(t *testing.T) {
	for _, tc := range []struct {
		name       string
		vocabulary Vocabulary
		status     string
		expected   Outcome
	}{
		{"app succeeded", AppDeploymentVocabulary, "succeeded", OutcomeSucceeded},
		{"app finished", AppDeploymentVocabulary, "finished", OutcomeSucceeded},
		{"app failed", AppDeploymentVocabulary, "failed", OutcomeFailed},
		{"app error", AppDeploymentVocabulary, "error", OutcomeFailed},
		{"app building", AppDeploymentVocabulary, "building", OutcomePending},
		{"app success is not terminal", AppDeploymentVocabulary, "success", OutcomePending},
		{"static success", StaticSiteDeploymentVocabulary, "success", OutcomeSucceeded},
		{"static failed", StaticSiteDeploymentVocabulary, "failed", OutcomeFailed},
		{"static cancelled", StaticSiteDeploymentVocabulary, "cancelled", OutcomeFailed},
		{"static skipped is not terminal", StaticSiteDeploymentVocabulary, "skipped", OutcomePending},
		{"promotion finished", PromotionVocabulary, "finished", OutcomeSucceeded},
		{"promotion running", PromotionVocabulary, "running", OutcomePending},
		{"empty status", PromotionVocabulary, "", OutcomePending},
		{"case sensitive", StaticSiteDeploymentVocabulary, "SUCCESS", OutcomePending},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.vocabulary.Classify(tc.status))
		})
	}
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "pending", OutcomePending.String())
	assert.Equal(t, "succeeded", OutcomeSucceeded.String())
	assert.Equal(t, "failed", OutcomeFailed.String())
}

func TestNewAppDeploymentRequest(t *testing.T) {
	b, err := json.Marshal(NewAppDeploymentRequest("app1", "", "", false))
	require.NoError(t, err)
	assert.JSONEq(t, `{"app_id":"app1","isRestart":false}`, string(b))

	b, err = json.Marshal(NewAppDeploymentRequest("app1", "main", "nginx:latest", true))
	require.NoError(t, err)
	assert.JSONEq(t, `{"app_id":"app1","branch":"main","isRestart":true,"dockerImage":"nginx:latest"}`, string(b))
}

func TestNewStaticSiteDeploymentRequest(t *testing.T) {
	b, err := json.Marshal(NewStaticSiteDeploymentRequest("s1", "main"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"static_site_id":"s1","branch":"main"}`, string(b))
}
