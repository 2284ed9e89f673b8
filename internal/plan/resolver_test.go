package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gusket/internal/analyze"
	"gusket/internal/directive"
)

func defaults() ContainerDefaults {
	return ContainerDefaults{
		Visibility: analyze.VisibilityExported,
		Mutable:    true,
	}
}

func entry(kind directive.Kind) directive.Entry {
	return directive.Entry{Kind: kind}
}

func visEntry(vis analyze.Visibility) directive.Entry {
	return directive.Entry{Kind: directive.KindVis, Visibility: vis}
}

func TestNewContainerDefaults_FollowsRecordVisibility(t *testing.T) {
	exported := NewContainerDefaults(&analyze.RecordDescriptor{Visibility: analyze.VisibilityExported})
	assert.Equal(t, ContainerDefaults{Visibility: analyze.VisibilityExported, Mutable: true}, exported)

	unexported := NewContainerDefaults(&analyze.RecordDescriptor{Visibility: analyze.VisibilityUnexported})
	assert.Equal(t, analyze.VisibilityUnexported, unexported.Visibility)
	assert.False(t, unexported.DeriveAll)
}

func TestContainerDefaults_Apply(t *testing.T) {
	got := defaults().Apply([]directive.Entry{
		entry(directive.KindAll),
		entry(directive.KindImmut),
		visEntry(analyze.VisibilityUnexported),
	})

	assert.Equal(t, ContainerDefaults{
		Visibility: analyze.VisibilityUnexported,
		Mutable:    false,
		DeriveAll:  true,
	}, got)
}

func TestResolve_NoDirectiveNoAll(t *testing.T) {
	policy := Resolve(defaults(), FieldOptions{})
	assert.False(t, policy.Derive)
}

func TestResolve_NoDirectiveWithAll(t *testing.T) {
	d := defaults()
	d.DeriveAll = true

	policy := Resolve(d, FieldOptions{})
	assert.True(t, policy.Derive)
	assert.True(t, policy.Mutable)
	assert.False(t, policy.ByValue)
}

func TestResolve_EmptyDirectiveOptsIn(t *testing.T) {
	policy := Resolve(defaults(), FieldOptions{Present: true})

	assert.Equal(t, ResolvedPolicy{
		Derive:     true,
		Visibility: analyze.VisibilityExported,
		Mutable:    true,
	}, policy)
}

func TestResolve_SkipWinsOverAll(t *testing.T) {
	d := defaults()
	d.DeriveAll = true

	policy := Resolve(d, FieldOptions{
		Present: true,
		Entries: []directive.Entry{entry(directive.KindSkip), entry(directive.KindCopy)},
	})
	assert.False(t, policy.Derive)
	assert.True(t, policy.ByValue)
}

func TestResolve_FieldOverridesContainer(t *testing.T) {
	d := defaults()
	d.Mutable = false

	policy := Resolve(d, FieldOptions{
		Present: true,
		Entries: []directive.Entry{entry(directive.KindMut), visEntry(analyze.VisibilityUnexported)},
	})
	assert.True(t, policy.Mutable)
	assert.Equal(t, analyze.VisibilityUnexported, policy.Visibility)

	policy = Resolve(defaults(), FieldOptions{
		Present: true,
		Entries: []directive.Entry{entry(directive.KindImmut)},
	})
	assert.False(t, policy.Mutable)
}

func TestResolve_LastWriteWins(t *testing.T) {
	policy := Resolve(defaults(), FieldOptions{
		Present: true,
		Entries: []directive.Entry{
			visEntry(analyze.VisibilityUnexported),
			entry(directive.KindImmut),
			visEntry(analyze.VisibilityExported),
			entry(directive.KindMut),
		},
	})
	assert.Equal(t, analyze.VisibilityExported, policy.Visibility)
	assert.True(t, policy.Mutable)

	policy = Resolve(defaults(), FieldOptions{
		Present: true,
		Entries: []directive.Entry{entry(directive.KindMut), entry(directive.KindImmut)},
	})
	assert.False(t, policy.Mutable)
}

func TestResolve_ContainerKeywordsIgnoredAtFieldLevel(t *testing.T) {
	// The parser never produces KindAll for a field; Resolve must not care.
	policy := Resolve(defaults(), FieldOptions{Entries: []directive.Entry{entry(directive.KindAll)}})
	assert.False(t, policy.Derive)
}
