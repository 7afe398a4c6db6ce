package curriculum

import (
	"testing"

	"curriculum-editor/internal/domain"
	"github.com/stretchr/testify/require"
)

func newQuizTree(t *testing.T) *Tree {
	t.Helper()
	tree := NewTree(CourseFields{DurationUnit: domain.UnitMinutes})
	tree.AddModule()
	a, ok := tree.AddActivity(0)
	require.True(t, ok)
	require.True(t, tree.SetField(a, FieldType, string(domain.ActivityQuiz)))
	_, ok = tree.AddQuestion(0, 0, domain.QuestionMultipleChoice)
	require.True(t, ok)
	return tree
}

func correctCount(q Question) int {
	n := 0
	for _, o := range q.Options {
		if o.IsCorrect {
			n++
		}
	}
	return n
}

func TestAddQuestionSeedsTwoOptions(t *testing.T) {
	tree := newQuizTree(t)
	q, ok := tree.Question(0, 0, 0)
	require.True(t, ok)
	require.Len(t, q.Options, 2)
	require.Equal(t, 0, q.CorrectOption())
	require.NotEmpty(t, q.ID)
	require.NotEqual(t, q.Options[0].ID, q.Options[1].ID)
}

func TestSetOptionCorrectIsExclusive(t *testing.T) {
	tree := newQuizTree(t)
	tree.AddOption(0, 0, 0)
	tree.AddOption(0, 0, 0)

	for l := 0; l < 4; l++ {
		require.True(t, tree.SetOptionCorrect(OptionPath(0, 0, 0, l)))
		q, _ := tree.Question(0, 0, 0)
		require.Equal(t, 1, correctCount(q))
		require.Equal(t, l, q.CorrectOption())
	}

	require.True(t, tree.SetField(OptionPath(0, 0, 0, 1), FieldIsCorrect, "true"))
	require.False(t, tree.SetField(OptionPath(0, 0, 0, 1), FieldIsCorrect, "false"))
	q, _ := tree.Question(0, 0, 0)
	require.Equal(t, 1, q.CorrectOption())
	require.Equal(t, 1, correctCount(q))
}

func TestOptionBounds(t *testing.T) {
	tree := newQuizTree(t)
	for i := 0; i < 4; i++ {
		_, ok := tree.AddOption(0, 0, 0)
		require.True(t, ok)
	}
	_, ok := tree.AddOption(0, 0, 0)
	require.False(t, ok)
	require.Equal(t, 6, tree.Len(QuestionPath(0, 0, 0)))

	for i := 0; i < 4; i++ {
		require.True(t, tree.RemoveOption(0, 0, 0, 0))
	}
	require.False(t, tree.RemoveOption(0, 0, 0, 0))
	require.Equal(t, 2, tree.Len(QuestionPath(0, 0, 0)))
}

func TestRemovingCorrectOptionReassigns(t *testing.T) {
	tree := newQuizTree(t)
	tree.AddOption(0, 0, 0)
	tree.SetOptionCorrect(OptionPath(0, 0, 0, 2))
	require.True(t, tree.RemoveOption(0, 0, 0, 2))

	q, _ := tree.Question(0, 0, 0)
	require.Len(t, q.Options, 2)
	require.Equal(t, 1, correctCount(q))
	require.Equal(t, 0, q.CorrectOption())
}

func TestSwitchingToMultipleChoiceSeedsOptions(t *testing.T) {
	tree := newQuizTree(t)
	p, ok := tree.AppendQuestion(0, 0, Question{QuestionFields: QuestionFields{QuestionType: domain.QuestionTrueFalse, CorrectAnswer: false}})
	require.True(t, ok)
	require.Equal(t, 0, tree.Len(p))

	require.True(t, tree.SetField(p, FieldQuestionType, string(domain.QuestionMultipleChoice)))
	q, _ := tree.Question(p[0], p[1], p[2])
	require.Len(t, q.Options, 2)
	require.Equal(t, 1, correctCount(q))
}

func TestInvalidPathsAreNoops(t *testing.T) {
	tree := NewTree(CourseFields{})
	tree.AddModule()
	require.False(t, tree.SetField(ModulePath(3), FieldTitle, "x"))
	require.False(t, tree.SetField(ActivityPath(0, 0), FieldTitle, "x"))
	require.False(t, tree.SetField(OptionPath(0, 0, 0, 0), FieldText, "x"))
	require.False(t, tree.Remove(ModulePath(-1)))
	require.False(t, tree.Remove(Path{}))
	require.False(t, tree.Move(ModulePath(0), 5))
	_, ok := tree.AddActivity(9)
	require.False(t, ok)
	_, ok = tree.AddOption(0, 0, 0)
	require.False(t, ok)
	require.False(t, tree.SetOptionCorrect(ActivityPath(0, 0)))
}

func TestRejectsInvalidValues(t *testing.T) {
	tree := NewTree(CourseFields{})
	p := tree.AddModule()
	a, _ := tree.AddActivity(0)
	require.True(t, tree.SetField(a, FieldDuration, "12"))
	require.False(t, tree.SetField(a, FieldDuration, "-3"))
	require.False(t, tree.SetField(a, FieldDuration, "1.5"))
	require.False(t, tree.SetField(a, FieldType, "podcast"))
	require.False(t, tree.SetField(p, FieldDurationUnit, "weeks"))
	require.True(t, tree.SetField(a, FieldVideoSource, "vimeo"))
	require.False(t, tree.SetField(a, FieldVideoSource, "dailymotion"))

	act, _ := tree.Activity(0, 0)
	require.Equal(t, int64(12), act.Duration)
	require.Equal(t, domain.ActivityReading, act.Type)
	require.Equal(t, domain.VideoVimeo, act.VideoSource)

	require.True(t, tree.UpdateActivity(0, 0, func(f *ActivityFields) { f.VideoSource = "dailymotion" }))
	act, _ = tree.Activity(0, 0)
	require.Equal(t, domain.VideoVimeo, act.VideoSource)

	require.True(t, tree.UpdateActivity(0, 0, func(f *ActivityFields) { f.Duration = -1 }))
	act, _ = tree.Activity(0, 0)
	require.Equal(t, int64(12), act.Duration)
}

func TestSwitchingTypeKeepsForeignData(t *testing.T) {
	tree := NewTree(CourseFields{})
	tree.AddModule()
	a, _ := tree.AddActivity(0)
	tree.SetField(a, FieldType, "video")
	tree.SetField(a, FieldVideoURL, "https://vimeo.com/123")
	tree.SetField(a, FieldType, "file")
	tree.SetField(a, FieldFileURL, "https://cdn.example.com/a.pdf")
	tree.SetField(a, FieldType, "video")

	act, _ := tree.Activity(0, 0)
	require.Equal(t, VideoContent{Source: domain.VideoVimeo, URL: "https://vimeo.com/123"}, act.Content())
	require.Equal(t, "https://cdn.example.com/a.pdf", act.FileURL)
}

func TestRemoveCascadesAndCompacts(t *testing.T) {
	tree := newQuizTree(t)
	tree.AddModule()
	tree.SetField(ModulePath(1), FieldTitle, "second")
	quiz, _ := tree.NodeAt(ActivityPath(0, 0))
	option, _ := tree.NodeAt(OptionPath(0, 0, 0, 1))

	var events []Event
	tree.Observe(func(ev Event) { events = append(events, ev) })
	require.True(t, tree.RemoveModule(0))

	require.Equal(t, 1, tree.Len(Path{}))
	m, _ := tree.Module(0)
	require.Equal(t, "second", m.Title)
	_, ok := tree.Locate(quiz)
	require.False(t, ok)
	_, ok = tree.Revision(option)
	require.False(t, ok)
	require.Equal(t, []Event{{Kind: EventRemoved, Path: ModulePath(0)}}, events)
}

func TestMutationsMarkDirtyAndBumpRevision(t *testing.T) {
	tree := NewTree(CourseFields{})
	tree.AddModule()
	tree.MarkClean()
	id, _ := tree.NodeAt(ModulePath(0))
	before, _ := tree.Revision(id)

	require.True(t, tree.SetField(ModulePath(0), FieldTitle, "Basics"))
	require.True(t, tree.Dirty())
	after, _ := tree.Revision(id)
	require.Greater(t, after, before)
}

func TestImportStampsBankReference(t *testing.T) {
	tree := NewTree(CourseFields{})
	p := tree.ImportModule("7", Module{
		ModuleFields: ModuleFields{Title: "Catalog module", DurationUnit: domain.UnitMinutes},
		Activities: []Activity{{ActivityFields: ActivityFields{
			BankRefID: "42", Title: "Intro", Type: domain.ActivityVideo, VideoURL: "https://youtu.be/abc",
			Duration: 5, DurationUnit: domain.UnitMinutes,
		}}},
	})
	m, _ := tree.Module(p[0])
	require.Equal(t, "7", m.BankRefID)
	require.Len(t, m.Activities, 1)
	require.Equal(t, "42", m.Activities[0].BankRefID)
	require.Equal(t, domain.VideoYouTube, m.Activities[0].VideoSource)
	require.Equal(t, int64(300), tree.TotalSeconds())
}

func TestPathsAndLocate(t *testing.T) {
	tree := newQuizTree(t)
	tree.AddModule()
	tree.AddActivity(1)
	tree.AddActivity(1)

	require.Equal(t, []Path{ModulePath(0), ModulePath(1)}, tree.Paths(LevelModule))
	require.Equal(t, []Path{ActivityPath(0, 0), ActivityPath(1, 0), ActivityPath(1, 1)}, tree.Paths(LevelActivity))
	require.Equal(t, []Path{QuestionPath(0, 0, 0)}, tree.Paths(LevelQuestion))

	id, _ := tree.NodeAt(OptionPath(0, 0, 0, 1))
	p, ok := tree.Locate(id)
	require.True(t, ok)
	require.Equal(t, OptionPath(0, 0, 0, 1), p)
}

func TestPathRendering(t *testing.T) {
	p := OptionPath(1, 0, 2, 3)
	require.Equal(t, "1:0:2:3", p.Key())
	require.Equal(t, "modules[1].activities[0].questions[2].options[3]", p.String())
	require.Equal(t, "modules[1].title", ModulePath(1).FieldPath("title"))
	require.Equal(t, "title", Path{}.FieldPath("title"))

	back, ok := ParseKey("1:0:2")
	require.True(t, ok)
	require.Equal(t, QuestionPath(1, 0, 2), back)
	_, ok = ParseKey("1:x")
	require.False(t, ok)
	require.True(t, ActivityPath(1, 0).HasPrefix(ModulePath(1)))
	require.False(t, ActivityPath(1, 0).HasPrefix(ModulePath(0)))
}
