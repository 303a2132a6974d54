package eventid_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/logfile/pkg/logfile/eventid"
)

type testEvent int

const (
	event1 testEvent = 1
	event2 testEvent = 2
)

func (e testEvent) String() string {
	switch e {
	case event1:
		return "Event1"
	case event2:
		return "Event2"
	}
	return "Unknown"
}

func TestResolveFullChain(t *testing.T) {
	class1 := eventid.NewScope("EventClass1", eventid.WithLevelID(1))
	class2 := class1.Nest("EventClass2", eventid.WithLevelID(2))
	enum := class2.Nest("EventEnum", eventid.WithLevelID(3))

	c := eventid.NewCatalog[testEvent](enum).Declare(event1, "")

	id, err := c.Resolve(event1)
	require.NoError(t, err)

	assert.Nil(t, id.ProductID)
	assert.Equal(t, []string{"EventClass1", "EventClass2", "EventEnum", "Event1"}, id.TextChain)
	assert.Equal(t, []int{1, 2, 3, 1}, id.NumberChain)
	assert.Nil(t, id.StringArguments)
	assert.Equal(t, "EventClass1.EventClass2.EventEnum.Event1 (1.2.3.1)", id.String())
}

func TestResolveSkipsUnnumberedLevel(t *testing.T) {
	class1 := eventid.NewScope("EventClass1", eventid.WithLevelID(1))
	class2 := class1.Nest("EventClass2")
	enum := class2.Nest("EventEnum", eventid.WithLevelID(3))

	c := eventid.NewCatalog[testEvent](enum).Declare(event1, "")

	id, err := c.Resolve(event1)
	require.NoError(t, err)
	assert.Equal(t, "EventClass1.EventEnum.Event1 (1.3.1)", id.String())
	assert.Len(t, id.TextChain, len(id.NumberChain))
}

func TestResolveWithoutLevelIDs(t *testing.T) {
	enum := eventid.NewScope("Outer").Nest("EventEnum")
	c := eventid.NewCatalog[testEvent](enum).Declare(event1, "Event1")

	id, err := c.Resolve(event1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Event1"}, id.TextChain)
	assert.Equal(t, []int{1}, id.NumberChain)
	assert.Equal(t, "Event1 (1)", id.String())
	assert.Equal(t, int64(0), c.ScopeBuilds())
}

func TestResolveProductID(t *testing.T) {
	tests := []struct {
		name  string
		build func() *eventid.Scope
		want  string
	}{
		{
			name: "inherited from outer scope",
			build: func() *eventid.Scope {
				return eventid.NewScope("Storage", eventid.WithLevelID(1), eventid.WithProductID("acme")).
					Nest("Disk", eventid.WithLevelID(2))
			},
			want: "acme/Storage.Disk.Event1 (acme/1.2.1)",
		},
		{
			name: "overridden by inner scope",
			build: func() *eventid.Scope {
				return eventid.NewScope("Storage", eventid.WithLevelID(1), eventid.WithProductID("acme")).
					Nest("Disk", eventid.WithLevelID(2), eventid.WithProductID("disk"))
			},
			want: "disk/Storage.Disk.Event1 (disk/1.2.1)",
		},
		{
			name: "cleared by empty product",
			build: func() *eventid.Scope {
				return eventid.NewScope("Storage", eventid.WithLevelID(1), eventid.WithProductID("acme")).
					Nest("Disk", eventid.WithLevelID(2), eventid.WithProductID(""))
			},
			want: "Storage.Disk.Event1 (1.2.1)",
		},
		{
			name: "cleared product stays absent below",
			build: func() *eventid.Scope {
				return eventid.NewScope("Storage", eventid.WithLevelID(1), eventid.WithProductID("acme")).
					Nest("Disk", eventid.WithLevelID(2), eventid.WithProductID("")).
					Nest("Partition", eventid.WithLevelID(3)).
					Nest("Enum")
			},
			want: "Storage.Disk.Partition.Event1 (1.2.3.1)",
		},
		{
			name: "cleared product declared again below",
			build: func() *eventid.Scope {
				return eventid.NewScope("Storage", eventid.WithLevelID(1), eventid.WithProductID("acme")).
					Nest("Disk", eventid.WithLevelID(2), eventid.WithProductID("")).
					Nest("Partition", eventid.WithLevelID(3)).
					Nest("Volume", eventid.WithLevelID(4), eventid.WithProductID("vol"))
			},
			want: "vol/Storage.Disk.Partition.Volume.Event1 (vol/1.2.3.4.1)",
		},
		{
			name: "declared on unnumbered scope",
			build: func() *eventid.Scope {
				return eventid.NewScope("Storage", eventid.WithProductID("acme")).
					Nest("Disk", eventid.WithLevelID(2))
			},
			want: "acme/Disk.Event1 (acme/2.1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := eventid.NewCatalog[testEvent](tt.build()).Declare(event1, "")
			id, err := c.Resolve(event1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, id.String())
		})
	}
}

func TestResolveUnknownMember(t *testing.T) {
	c := eventid.NewCatalog[testEvent](eventid.NewScope("Enum"))

	_, err := c.Resolve(event2)
	assert.ErrorIs(t, err, eventid.ErrUnknownMember)
}

func TestResolveNilScope(t *testing.T) {
	c := eventid.NewCatalog[testEvent](nil).Declare(event1, "")

	_, err := c.Resolve(event1)
	assert.ErrorIs(t, err, eventid.ErrNilScope)
}

func TestDeclareLastWins(t *testing.T) {
	c := eventid.NewCatalog[testEvent](eventid.NewScope("Enum")).
		Declare(event1, "First", eventid.WithParameters("a")).
		Declare(event1, "Second", eventid.WithParameters("b", "c"))

	id, err := c.Resolve(event1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Second"}, id.TextChain)
	assert.Equal(t, []string{"b", "c"}, id.ParameterNames)
}

func TestNewArguments(t *testing.T) {
	c := eventid.NewCatalog[testEvent](eventid.NewScope("Enum", eventid.WithLevelID(4))).
		Declare(event2, "", eventid.WithParameters("device", "usage"))

	id, err := c.New(event2, "/dev/sda", 98, nil, "extra")
	require.NoError(t, err)

	require.Len(t, id.StringArguments, 4)
	assert.Nil(t, id.StringArguments[2])
	assert.Equal(t, `Enum.Event2 (4.2) {device="/dev/sda", usage="98", null, "extra"}`, id.String())
	assert.Equal(t, event2, id.Member)
}

func TestNewWithoutArguments(t *testing.T) {
	c := eventid.NewCatalog[testEvent](eventid.NewScope("Enum")).Declare(event1, "")

	id, err := c.New(event1)
	require.NoError(t, err)
	assert.Nil(t, id.StringArguments)
	assert.Equal(t, "Event1 (1)", id.String())
}

func TestResolveCachesScopes(t *testing.T) {
	outer := eventid.NewScope("Outer", eventid.WithLevelID(1))
	enum := outer.Nest("Enum", eventid.WithLevelID(2))
	c := eventid.NewCatalog[testEvent](enum).
		Declare(event1, "").
		Declare(event2, "")

	first, err := c.Resolve(event1)
	require.NoError(t, err)
	second, err := c.Resolve(event2)
	require.NoError(t, err)
	again, err := c.Resolve(event1)
	require.NoError(t, err)

	assert.Equal(t, int64(2), c.ScopeBuilds())
	assert.Equal(t, []int{1, 2, 1}, first.NumberChain)
	assert.Equal(t, []int{1, 2, 2}, second.NumberChain)
	assert.Equal(t, first.TextChain, again.TextChain)
}

func TestResolveConcurrentFirstUse(t *testing.T) {
	outer := eventid.NewScope("Outer", eventid.WithLevelID(1), eventid.WithProductID("p"))
	middle := outer.Nest("Middle")
	enum := middle.Nest("Enum", eventid.WithLevelID(3))
	c := eventid.NewCatalog[testEvent](enum).
		Declare(event1, "").
		Declare(event2, "")

	const goroutines = 64
	results := make([]*eventid.Identifier, goroutines)
	errs := make([]error, goroutines)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			member := event1
			if i%2 == 1 {
				member = event2
			}
			results[i], errs[i] = c.Resolve(member)
		}()
	}
	close(start)
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "goroutine %d", i)
	}

	// Every goroutine resolving the same member sees the same cached chains.
	for i, got := range results {
		want := results[i%2]
		if i%2 == 0 {
			assert.Equal(t, "p/Outer.Enum.Event1 (p/1.3.1)", got.String())
		} else {
			assert.Equal(t, "p/Outer.Enum.Event2 (p/1.3.2)", got.String())
		}
		assert.Same(t, &want.TextChain[0], &got.TextChain[0], "goroutine %d", i)
		assert.Same(t, &want.NumberChain[0], &got.NumberChain[0], "goroutine %d", i)
		assert.Same(t, want.ProductID, got.ProductID, "goroutine %d", i)
	}
	assert.Same(t, results[0].ProductID, results[1].ProductID)
	assert.Equal(t, int64(2), c.ScopeBuilds())
}

func TestIdentifyTypeMismatch(t *testing.T) {
	c := eventid.NewCatalog[testEvent](eventid.NewScope("Enum")).Declare(event1, "")

	_, err := c.Identify(1)
	assert.ErrorIs(t, err, eventid.ErrMemberType)

	id, err := c.Identify(event1, "x")
	require.NoError(t, err)
	assert.Equal(t, `Event1 (1) {"x"}`, id.String())
}
