package task_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/alanyang/taskboard/internal/domain/task"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Status
		wantErr bool
	}{
		{name: "upper", in: "DOING", want: StatusDoing},
		{name: "lower is normalised", in: "done", want: StatusDone},
		{name: "padded", in: "  todo ", want: StatusTodo},
		{name: "unknown", in: "BLOCKED", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority("high")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParsePriority("URGENT")
	require.Error(t, err)
}

func TestWeights(t *testing.T) {
	assert.Equal(t, 1, StatusTodo.Weight())
	assert.Equal(t, 2, StatusDoing.Weight())
	assert.Equal(t, 3, StatusDone.Weight())
	assert.Equal(t, 0, Status("BOGUS").Weight())

	assert.Equal(t, 1, PriorityLow.Weight())
	assert.Equal(t, 2, PriorityMedium.Weight())
	assert.Equal(t, 3, PriorityHigh.Weight())
}

func TestNew_Defaults(t *testing.T) {
	tk := New("write docs", "", "", 4)
	assert.Equal(t, StatusTodo, tk.Status)
	assert.Equal(t, PriorityLow, tk.Priority)
	assert.Equal(t, int64(4), tk.ProjectID)
	assert.Zero(t, tk.ID)
	assert.False(t, tk.CreatedAt.IsZero())

	tk = New("ship", StatusDoing, PriorityHigh, 4)
	assert.Equal(t, StatusDoing, tk.Status)
	assert.Equal(t, PriorityHigh, tk.Priority)
}

func TestUnmarshalJSON_ValidatesEnums(t *testing.T) {
	var body struct {
		Status   *Status   `json:"status"`
		Priority *Priority `json:"priority"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"status":"doing","priority":"MEDIUM"}`), &body))
	require.NotNil(t, body.Status)
	assert.Equal(t, StatusDoing, *body.Status)
	assert.Equal(t, PriorityMedium, *body.Priority)

	err := json.Unmarshal([]byte(`{"status":"PAUSED"}`), &body)
	require.Error(t, err)
}

func TestListFilters_Matches(t *testing.T) {
	todo, high, project := StatusTodo, PriorityHigh, int64(7)
	tk := Task{Status: StatusDone, Priority: PriorityHigh, ProjectID: 3}

	tests := []struct {
		name    string
		filters ListFilters
		want    bool
	}{
		{name: "no criteria matches nothing", filters: ListFilters{}, want: false},
		{name: "status miss", filters: ListFilters{Status: &todo}, want: false},
		{name: "priority hit", filters: ListFilters{Priority: &high}, want: true},
		{name: "any criterion is enough", filters: ListFilters{Status: &todo, Priority: &high, ProjectID: &project}, want: true},
		{name: "all miss", filters: ListFilters{Status: &todo, ProjectID: &project}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filters.Matches(tk))
		})
	}
}

func TestListFilters_IsEmpty(t *testing.T) {
	assert.True(t, ListFilters{}.IsEmpty())
	id := int64(1)
	assert.False(t, ListFilters{ProjectID: &id}.IsEmpty())
}
