package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"candidate-portal/internal/domain"
	"candidate-portal/internal/usecase"
	"candidate-portal/pkg/supersede"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newGuard(fetcher domain.CompletionFetcher, failOpen bool) domain.AccessGuard {
	return usecase.NewAccessGuard(fetcher, supersede.New(), usecase.GuardConfig{FailOpen: failOpen, FetchTimeout: time.Second})
}

func incomplete() *domain.ProfileCompletion {
	c := usecase.NewCompletion([]domain.SectionKey{domain.SectionAccountIdentity, domain.SectionEducation})
	return c
}

func complete() *domain.ProfileCompletion {
	var keys []domain.SectionKey
	for _, s := range domain.OnboardingSections() {
		keys = append(keys, s.Key)
	}
	return usecase.NewCompletion(keys)
}

func TestAccessGuardNonCandidates(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleRecruiter, ""} {
		t.Run("Role "+string(role)+" renders without fetching", func(t *testing.T) {
			fetcher := new(MockCompletionFetcher)
			guard := newGuard(fetcher, true)
			session := &domain.Session{UserID: "u1", Role: role}

			for _, path := range []string{"/dashboard", "/jobs/42", "/assessments", "/profile"} {
				d, err := guard.Decide(context.Background(), session, path)
				require.NoError(t, err)
				assert.Equal(t, domain.GuardAllowed, d.State)
			}
			fetcher.AssertNotCalled(t, "GetCompletion", mock.Anything, mock.Anything)
		})
	}

	t.Run("Nil session is allowed", func(t *testing.T) {
		fetcher := new(MockCompletionFetcher)
		d, err := newGuard(fetcher, true).Decide(context.Background(), nil, "/dashboard")
		require.NoError(t, err)
		assert.True(t, d.Allowed())
		fetcher.AssertNotCalled(t, "GetCompletion", mock.Anything, mock.Anything)
	})
}

func TestAccessGuardCandidates(t *testing.T) {
	session := &domain.Session{UserID: "cand1", Role: domain.RoleCandidate, Token: "t1"}

	t.Run("Incomplete profile on restricted prefixes redirects to profile", func(t *testing.T) {
		for _, path := range []string{"/dashboard", "/dashboard/credits", "/assessments", "/assessments/7", "/jobs", "/jobs/apply/3"} {
			fetcher := new(MockCompletionFetcher)
			fetcher.On("GetCompletion", mock.Anything, "cand1").Return(incomplete(), nil).Once()

			d, err := newGuard(fetcher, true).Decide(context.Background(), session, path)

			require.NoError(t, err)
			assert.Equal(t, domain.GuardRedirecting, d.State, path)
			assert.Equal(t, "/profile", d.RedirectTo)
			fetcher.AssertExpectations(t)
		}
	})

	t.Run("Scenario: 60 percent with Education done on /dashboard redirects", func(t *testing.T) {
		fetcher := new(MockCompletionFetcher)
		fetcher.On("GetCompletion", mock.Anything, "cand1").Return(&domain.ProfileCompletion{
			TotalPercentage: 60,
			Sections:        map[domain.SectionKey]bool{domain.SectionEducation: true},
		}, nil)

		d, err := newGuard(fetcher, true).Decide(context.Background(), session, "/dashboard")

		require.NoError(t, err)
		assert.Equal(t, domain.GuardRedirecting, d.State)
		assert.Equal(t, domain.RouteProfile, d.RedirectTo)
	})

	t.Run("Incomplete profile on unrestricted paths renders", func(t *testing.T) {
		for _, path := range []string{"/authentication", "/profile", "/profile/education", "/"} {
			fetcher := new(MockCompletionFetcher)
			fetcher.On("GetCompletion", mock.Anything, "cand1").Return(incomplete(), nil).Once()

			d, err := newGuard(fetcher, true).Decide(context.Background(), session, path)

			require.NoError(t, err)
			assert.Equal(t, domain.GuardAllowed, d.State, path)
		}
	})

	t.Run("Complete profile renders restricted paths", func(t *testing.T) {
		fetcher := new(MockCompletionFetcher)
		fetcher.On("GetCompletion", mock.Anything, "cand1").Return(complete(), nil)

		d, err := newGuard(fetcher, true).Decide(context.Background(), session, "/jobs")

		require.NoError(t, err)
		assert.True(t, d.Allowed())
		assert.Equal(t, 100, d.Completion.TotalPercentage)
	})

	t.Run("One fetch per navigation", func(t *testing.T) {
		fetcher := new(MockCompletionFetcher)
		fetcher.On("GetCompletion", mock.Anything, "cand1").Return(complete(), nil)
		guard := newGuard(fetcher, true)

		for _, path := range []string{"/dashboard", "/jobs", "/profile"} {
			_, err := guard.Decide(context.Background(), session, path)
			require.NoError(t, err)
		}
		fetcher.AssertNumberOfCalls(t, "GetCompletion", 3)
	})
}

func TestAccessGuardFetchFailure(t *testing.T) {
	session := &domain.Session{UserID: "cand1", Role: domain.RoleCandidate, Token: "t1"}
	networkErr := errors.New("dial tcp: connection refused")

	t.Run("Fails open for every path", func(t *testing.T) {
		for _, path := range []string{"/jobs", "/dashboard", "/assessments/1", "/authentication"} {
			fetcher := new(MockCompletionFetcher)
			fetcher.On("GetCompletion", mock.Anything, "cand1").Return(nil, networkErr)

			d, err := newGuard(fetcher, true).Decide(context.Background(), session, path)

			require.NoError(t, err)
			assert.Equal(t, domain.GuardAllowed, d.State, path)
			assert.ErrorIs(t, d.FetchErr, networkErr)
		}
	})

	t.Run("Fail closed redirects only restricted paths", func(t *testing.T) {
		fetcher := new(MockCompletionFetcher)
		fetcher.On("GetCompletion", mock.Anything, "cand1").Return(nil, networkErr)
		guard := newGuard(fetcher, false)

		d, err := guard.Decide(context.Background(), session, "/jobs")
		require.NoError(t, err)
		assert.Equal(t, domain.GuardRedirecting, d.State)

		d, err = guard.Decide(context.Background(), session, "/authentication")
		require.NoError(t, err)
		assert.Equal(t, domain.GuardAllowed, d.State)
	})

	t.Run("Slow fetch times out and fails open", func(t *testing.T) {
		fetcher := new(MockCompletionFetcher)
		fetcher.On("GetCompletion", mock.Anything, "cand1").
			Run(func(args mock.Arguments) {
				<-args.Get(0).(context.Context).Done()
			}).
			Return(nil, context.DeadlineExceeded)
		guard := usecase.NewAccessGuard(fetcher, supersede.New(), usecase.GuardConfig{FailOpen: true, FetchTimeout: 20 * time.Millisecond})

		d, err := guard.Decide(context.Background(), session, "/dashboard")

		require.NoError(t, err)
		assert.True(t, d.Allowed())
	})
}

func TestAccessGuardSupersededNavigation(t *testing.T) {
	session := &domain.Session{UserID: "cand1", Role: domain.RoleCandidate, Token: "t1"}
	tracker := supersede.New()

	started := make(chan struct{})
	fetcher := new(MockCompletionFetcher)
	// First navigation blocks until its context is cancelled by the second one.
	fetcher.On("GetCompletion", mock.Anything, "cand1").
		Run(func(args mock.Arguments) {
			close(started)
			<-args.Get(0).(context.Context).Done()
		}).
		Return(incomplete(), nil).Once()
	fetcher.On("GetCompletion", mock.Anything, "cand1").Return(complete(), nil).Once()

	guard := usecase.NewAccessGuard(fetcher, tracker, usecase.GuardConfig{FailOpen: true, FetchTimeout: 5 * time.Second})

	type result struct {
		d   domain.GuardDecision
		err error
	}
	tab := domain.WithNavigationScope(context.Background(), "tab-1")
	first := make(chan result, 1)
	go func() {
		d, err := guard.Decide(tab, session, "/dashboard")
		first <- result{d, err}
	}()

	<-started
	d, err := guard.Decide(tab, session, "/jobs")
	require.NoError(t, err)
	assert.True(t, d.Allowed())

	stale := <-first
	assert.ErrorIs(t, stale.err, domain.ErrNavigationSuperseded)
	assert.False(t, stale.d.Allowed(), "a superseded check must never render")
	assert.Equal(t, 0, tracker.Len())
}

func TestAccessGuardOverlappingRequestsWithoutScope(t *testing.T) {
	session := &domain.Session{UserID: "cand1", Role: domain.RoleCandidate, Token: "t1"}
	tracker := supersede.New()

	fetcher := new(MockCompletionFetcher)
	fetcher.On("GetCompletion", mock.Anything, "cand1").
		Run(func(mock.Arguments) { time.Sleep(50 * time.Millisecond) }).
		Return(incomplete(), nil)
	guard := usecase.NewAccessGuard(fetcher, tracker, usecase.GuardConfig{FailOpen: true, FetchTimeout: time.Second})

	paths := []string{"/profile", "/profile/education"}
	decisions := make([]domain.GuardDecision, len(paths))
	errs := make([]error, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			decisions[i], errs[i] = guard.Decide(context.Background(), session, path)
		}(i, path)
	}
	wg.Wait()

	for i := range paths {
		require.NoError(t, errs[i], paths[i])
		assert.Equal(t, domain.GuardAllowed, decisions[i].State, paths[i])
	}
	assert.Equal(t, 0, tracker.Len())
	fetcher.AssertNumberOfCalls(t, "GetCompletion", 2)
}

func TestAccessGuardSeparateScopesDoNotSupersede(t *testing.T) {
	session := &domain.Session{UserID: "cand1", Role: domain.RoleCandidate, Token: "t1"}

	fetcher := new(MockCompletionFetcher)
	fetcher.On("GetCompletion", mock.Anything, "cand1").
		Run(func(mock.Arguments) { time.Sleep(50 * time.Millisecond) }).
		Return(complete(), nil)
	guard := usecase.NewAccessGuard(fetcher, supersede.New(), usecase.GuardConfig{FailOpen: true, FetchTimeout: time.Second})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, scope := range []string{"tab-1", "tab-2"} {
		wg.Add(1)
		go func(i int, scope string) {
			defer wg.Done()
			_, errs[i] = guard.Decide(domain.WithNavigationScope(context.Background(), scope), session, "/dashboard")
		}(i, scope)
	}
	wg.Wait()

	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])
}
