package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ghkeep/ghkeep/internal/config"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.GitHubConfig{
		BaseURL:           server.URL,
		RequestTimeout:    5 * time.Second,
		RequestsPerSecond: 1000,
	}
	return NewClient(cfg, "test-token", zap.NewNop()), server
}

func TestListRepositories(t *testing.T) {
	t.Run("SinglePage", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/users/octocat/repos" {
				t.Errorf("Unexpected path: %s", r.URL.Path)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
				t.Errorf("Unexpected auth header: %s", got)
			}
			if got := r.Header.Get("Accept"); got != "application/vnd.github.v3+json" {
				t.Errorf("Unexpected accept header: %s", got)
			}
			fmt.Fprint(w, `[{"name":"tools"},{"name":"docs"}]`)
		}))

		repos, err := client.ListRepositories(context.Background(), "octocat")
		if err != nil {
			t.Fatalf("ListRepositories failed: %v", err)
		}
		if len(repos) != 2 || repos[0] != "tools" || repos[1] != "docs" {
			t.Errorf("Unexpected repositories: %v", repos)
		}
	})

	t.Run("Paginated", func(t *testing.T) {
		var server *httptest.Server
		mux := http.NewServeMux()
		mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Link", fmt.Sprintf(`<%s/page2>; rel="next"`, server.URL))
			fmt.Fprint(w, `[{"name":"one"}]`)
		})
		mux.HandleFunc("/page2", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[{"name":"two"}]`)
		})
		client, s := newTestClient(t, mux)
		server = s

		repos, err := client.ListRepositories(context.Background(), "octocat")
		if err != nil {
			t.Fatalf("ListRepositories failed: %v", err)
		}
		if len(repos) != 2 || repos[0] != "one" || repos[1] != "two" {
			t.Errorf("Pagination not followed: %v", repos)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
		}))

		_, err := client.ListRepositories(context.Background(), "ghost")
		if err == nil {
			t.Fatal("Expected error for missing user")
		}
		want := "reading repositories for user ghost: Not Found"
		if err.Error() != want {
			t.Errorf("Error = %q, want %q", err.Error(), want)
		}
	})

	t.Run("BadCredentials", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"message":"Bad credentials"}`)
		}))

		_, err := client.ListRepositories(context.Background(), "octocat")
		if err == nil {
			t.Fatal("Expected error for bad credentials")
		}
		want := "reading repositories for user octocat: Bad credentials"
		if err.Error() != want {
			t.Errorf("Error = %q, want %q", err.Error(), want)
		}
	})
}

func TestListWorkflows(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/octocat/tools/actions/workflows" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"workflows":[{"path":".github/workflows/ci.yml"},{"path":".github/workflows/release.yml"}]}`)
	}))

	workflows, err := client.ListWorkflows(context.Background(), "octocat", "tools")
	if err != nil {
		t.Fatalf("ListWorkflows failed: %v", err)
	}
	if len(workflows) != 2 || workflows[0] != "ci.yml" || workflows[1] != "release.yml" {
		t.Errorf("Expected basenames, got %v", workflows)
	}
}

func TestListWorkflowRuns(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"workflow_runs":[{"id":301},{"id":302},{"id":303}]}`)
	}))

	runs, err := client.ListWorkflowRuns(context.Background(), "octocat", "tools")
	if err != nil {
		t.Fatalf("ListWorkflowRuns failed: %v", err)
	}
	if len(runs) != 3 || runs[0] != 301 || runs[2] != 303 {
		t.Errorf("Unexpected run IDs: %v", runs)
	}
}

func TestEnableWorkflow(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut {
				t.Errorf("Unexpected method: %s", r.Method)
			}
			if r.URL.Path != "/repos/octocat/tools/actions/workflows/ci.yml/enable" {
				t.Errorf("Unexpected path: %s", r.URL.Path)
			}
			w.WriteHeader(http.StatusNoContent)
		}))

		if err := client.EnableWorkflow(context.Background(), "octocat", "tools", "ci.yml"); err != nil {
			t.Fatalf("EnableWorkflow failed: %v", err)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
		}))

		err := client.EnableWorkflow(context.Background(), "octocat", "gone", "ci.yml")
		if err == nil {
			t.Fatal("Expected error")
		}
		want := "enabling octocat/gone workflow ci.yml: Not Found"
		if err.Error() != want {
			t.Errorf("Error = %q, want %q", err.Error(), want)
		}
	})
}

func TestDeleteWorkflowRun(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				t.Errorf("Unexpected method: %s", r.Method)
			}
			if r.URL.Path != "/repos/octocat/tools/actions/runs/301" {
				t.Errorf("Unexpected path: %s", r.URL.Path)
			}
			w.WriteHeader(http.StatusNoContent)
		}))

		if err := client.DeleteWorkflowRun(context.Background(), "octocat", "tools", 301); err != nil {
			t.Fatalf("DeleteWorkflowRun failed: %v", err)
		}
	})

	t.Run("Forbidden", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"message":"Must have admin rights"}`)
		}))

		if err := client.DeleteWorkflowRun(context.Background(), "octocat", "tools", 301); err == nil {
			t.Fatal("Expected error")
		}
	})
}

func TestNextPageURL(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
	}{
		{
			name:   "NextPresent",
			header: `<https://api.github.com/user/repos?page=3>; rel="next", <https://api.github.com/user/repos?page=50>; rel="last"`,
			want:   "https://api.github.com/user/repos?page=3",
		},
		{
			name:   "LastPage",
			header: `<https://api.github.com/user/repos?page=1>; rel="first"`,
			want:   "",
		},
		{
			name:   "Empty",
			header: "",
			want:   "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := nextPageURL(tc.header); got != tc.want {
				t.Errorf("nextPageURL(%q) = %q, want %q", tc.header, got, tc.want)
			}
		})
	}
}

func TestContextCancellation(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.ListRepositories(ctx, "octocat"); err == nil {
		t.Error("Expected error for canceled context")
	}
}
