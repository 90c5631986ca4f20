package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/courseforge-backend/internal/domain/aggregates"
	types "github.com/yungbote/courseforge-backend/internal/domain/authoring"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/content"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/standards"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/validation"
)

type ActivityReport struct {
	ActivityID  uuid.UUID          `json:"activity_id"`
	Title       string             `json:"title"`
	ContentType types.ContentType  `json:"content_type"`
	BuildState  types.BuildState   `json:"build_state"`
	Issues      []validation.Issue `json:"issues"`
}

// CourseReport is a point-in-time validation of a whole course. Nothing in it
// is persisted.
type CourseReport struct {
	CourseID     uuid.UUID                   `json:"course_id"`
	Profile      string                      `json:"profile"`
	Activities   []ActivityReport            `json:"activities"`
	CourseIssues []validation.Issue          `json:"course_issues"`
	Counts       map[validation.Severity]int `json:"counts"`
}

// ValidateCourse re-runs the activity validators over every activity with
// content and adds the cross-item course rules.
func (s *courseService) ValidateCourse(ctx context.Context, courseID uuid.UUID) (*CourseReport, error) {
	const op = "services.ValidateCourse"
	doc, err := s.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	profile, err := standards.Resolve(doc.Course.StandardsProfile, s.defaultProfile)
	if err != nil {
		return nil, err
	}

	reports := make([]ActivityReport, len(doc.Activities))
	bodies := map[uuid.UUID]content.Body{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.validateLimit)
	for i, act := range doc.Activities {
		reports[i] = ActivityReport{
			ActivityID:  act.ID,
			Title:       act.Title,
			ContentType: act.ContentType,
			BuildState:  act.BuildState,
			Issues:      []validation.Issue{},
		}
		if !act.HasContent() {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			body, derr := content.Decode(act.ContentType, act.Content)
			if derr != nil {
				// Structure issues come back from RunRaw for undecodable content.
				issues, err := validation.RunRaw(act.ContentType, act.Content, profile)
				if err != nil {
					return err
				}
				reports[i].Issues = issues
				return nil
			}
			issues, err := validation.Run(validation.Input{ContentType: act.ContentType, Body: body}, profile)
			if err != nil {
				return err
			}
			reports[i].Issues = issues
			mu.Lock()
			bodies[act.ID] = body
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if aggregates.CodeOf(err) != "" {
			return nil, err
		}
		return nil, aggregates.Wrap(aggregates.CodeInternal, op, err)
	}

	courseIssues, err := validation.RunCourse(validation.CourseInput{Doc: doc, Bodies: bodies}, profile)
	if err != nil {
		return nil, err
	}

	all := append([]validation.Issue{}, courseIssues...)
	for _, r := range reports {
		all = append(all, r.Issues...)
	}
	s.log.Info("course validated",
		"course_id", courseID,
		"activities", len(reports),
		"course_issues", len(courseIssues),
	)
	return &CourseReport{
		CourseID:     courseID,
		Profile:      profile.Name,
		Activities:   reports,
		CourseIssues: courseIssues,
		Counts:       validation.Counts(all),
	}, nil
}
