package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/courseforge-backend/internal/app"
	types "github.com/yungbote/courseforge-backend/internal/domain/authoring"
	"github.com/yungbote/courseforge-backend/internal/pkg/dbctx"
	"github.com/yungbote/courseforge-backend/internal/platform/ctxutil"
)

type idList []string

func (l *idList) String() string { return strings.Join(*l, ",") }
func (l *idList) Set(v string) error {
	v = strings.TrimSpace(v)
	if v != "" {
		*l = append(*l, v)
	}
	return nil
}

// revalidate re-runs the validators over stored activity content, typically
// after the default standards profile changed.
func main() {
	var courses idList
	var dryRun bool
	flag.Var(&courses, "course", "course id to revalidate (repeatable)")
	flag.BoolVar(&dryRun, "dry-run", false, "print the course report without persisting issues")
	flag.Parse()

	if len(courses) == 0 {
		fmt.Println("at least one -course is required")
		os.Exit(2)
	}

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx := context.Background()
	failed := false
	for _, raw := range courses {
		courseID, err := uuid.Parse(raw)
		if err != nil || courseID == uuid.Nil {
			fmt.Printf("skip %q: not a course id\n", raw)
			continue
		}
		course, err := application.Repos.Course.GetByID(dbctx.Context{Ctx: ctx}, courseID)
		if err != nil || course == nil {
			fmt.Printf("course %s: not found (%v)\n", courseID, err)
			failed = true
			continue
		}
		octx := ctxutil.WithRequestData(ctx, &ctxutil.RequestData{OwnerID: course.OwnerID})

		if dryRun {
			report, err := application.Services.Course.ValidateCourse(octx, courseID)
			if err != nil {
				fmt.Printf("course %s: %v\n", courseID, err)
				failed = true
				continue
			}
			fmt.Printf("course %s: %d activities, %d course issues, counts=%v\n",
				courseID, len(report.Activities), len(report.CourseIssues), report.Counts)
			continue
		}

		doc, err := application.Services.Course.GetCourse(octx, courseID)
		if err != nil {
			fmt.Printf("course %s: %v\n", courseID, err)
			failed = true
			continue
		}
		updated := 0
		for _, act := range doc.Activities {
			if !act.HasContent() || act.BuildState == types.BuildStateGenerating {
				continue
			}
			out, err := application.Services.Activity.Revalidate(octx, act.ID)
			if err != nil {
				fmt.Printf("activity %s: %v\n", act.ID, err)
				failed = true
				continue
			}
			updated++
			fmt.Printf("activity %s: %d issues\n", act.ID, len(out.Issues))
		}
		fmt.Printf("course %s: revalidated %d activities\n", courseID, updated)
	}
	if failed {
		os.Exit(1)
	}
}
