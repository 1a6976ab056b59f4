package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entityValues(entities []Entity, typ EntityType) []string {
	for _, e := range entities {
		if e.Type == typ {
			return e.Values
		}
	}
	return nil
}

func TestExtractEntitiesNormalizesPhoneFormats(t *testing.T) {
	inputs := []string{
		"call me at 555-123-4567",
		"call me at (555) 123-4567",
		"call me at 555.123.4567",
		"call me at +1 555 123 4567",
	}
	for _, input := range inputs {
		values := entityValues(ExtractEntities(input), EntityPhone)
		require.Len(t, values, 1, "input %q", input)
		assert.Equal(t, "(555) 123-4567", values[0], "input %q", input)
	}
}

func TestExtractEntitiesEmailAndMoney(t *testing.T) {
	entities := ExtractEntities("Email jane.doe+app@university.edu, tuition is $12,000 per year")

	assert.Equal(t, []string{"jane.doe+app@university.edu"}, entityValues(entities, EntityEmail))
	assert.Equal(t, []string{"$12,000"}, entityValues(entities, EntityMoney))
}

func TestExtractEntitiesDates(t *testing.T) {
	entities := ExtractEntities("The deadline is January 15, 2026 or maybe 03/01/2026")

	values := entityValues(entities, EntityDate)
	require.Len(t, values, 2)
	assert.Equal(t, "January 15, 2026", values[0])
	assert.Equal(t, "03/01/2026", values[1])
}

func TestExtractEntitiesAcademicFields(t *testing.T) {
	entities := ExtractEntities("I'm a senior with a 3.8 GPA applying for Computer Science, SAT 1350")

	assert.Equal(t, []string{"3.8"}, entityValues(entities, EntityGPA))
	assert.Equal(t, []string{"Computer Science"}, entityValues(entities, EntityProgram))
	assert.Equal(t, []string{"senior"}, entityValues(entities, EntityAcademicLevel))
	assert.Equal(t, []string{"SAT 1350"}, entityValues(entities, EntityTestScore))
}

func TestExtractEntitiesNoMatches(t *testing.T) {
	assert.Empty(t, ExtractEntities("tell me about campus life"))
}

func TestExtractEntitiesOrderFollowsMatcherTable(t *testing.T) {
	entities := ExtractEntities("reach admissions@university.edu or (555) 123-4567")

	require.Len(t, entities, 2)
	assert.Equal(t, EntityEmail, entities[0].Type)
	assert.Equal(t, EntityPhone, entities[1].Type)
}
