package views

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/upscprep/prepdesk/internal/apiclient"
	"github.com/upscprep/prepdesk/internal/domain"
	"github.com/upscprep/prepdesk/internal/forms"
	"github.com/upscprep/prepdesk/internal/uploads"
)

// Wizard steps of the new-assessment view.
const (
	stepSubject = iota
	stepTopic
	stepDifficulty
	stepDone
)

// newAssessment walks subject, topic and difficulty. Route params prefill
// steps; "b" goes back one step.
func (a *App) newAssessment(ctx context.Context, route Route) error {
	a.heading("New assessment")
	form := forms.NewAssessment{
		Subject:    route.Param("subject"),
		Topic:      route.Param("topic"),
		Difficulty: route.Param("difficulty"),
	}

	step := stepSubject
	for step != stepDone {
		switch step {
		case stepSubject:
			if form.Subject != "" {
				step = stepTopic
				continue
			}
			names := make([]string, len(domain.Subjects))
			for i, s := range domain.Subjects {
				names[i] = s.Name
			}
			fmt.Fprintln(a.Out, "Step 1 of 3: choose a subject")
			i, err := a.Prompter.Choose("Subject", names, false)
			if err != nil {
				return err
			}
			form.Subject = domain.Subjects[i].ID
			step = stepTopic

		case stepTopic:
			if form.Topic != "" {
				step = stepDifficulty
				continue
			}
			subject, ok := domain.SubjectByID(form.Subject)
			if !ok {
				fmt.Fprintf(a.Out, "Unknown subject %q.\n", form.Subject)
				form.Subject = ""
				step = stepSubject
				continue
			}
			fmt.Fprintf(a.Out, "Step 2 of 3: choose a %s topic\n", subject.Name)
			i, err := a.Prompter.Choose("Topic", subject.Topics, true)
			if errors.Is(err, errBack) {
				form.Subject = ""
				step = stepSubject
				continue
			}
			if err != nil {
				return err
			}
			form.Topic = subject.Topics[i]
			step = stepDifficulty

		case stepDifficulty:
			if form.Difficulty != "" {
				step = stepDone
				continue
			}
			fmt.Fprintln(a.Out, "Step 3 of 3: choose a difficulty")
			i, err := a.Prompter.Choose("Difficulty", domain.Difficulties, true)
			if errors.Is(err, errBack) {
				form.Topic = ""
				step = stepTopic
				continue
			}
			if err != nil {
				return err
			}
			form.Difficulty = domain.Difficulties[i]
			step = stepDone
		}
	}

	if err := forms.Validate(form); err != nil {
		if a.printValidation(err) {
			a.Router.Navigate(RouteAssessmentNew)
			return nil
		}
		return err
	}

	fmt.Fprintln(a.Out, "Generating questions...")
	as, err := a.Client.Assessments.Create(ctx, domain.NewAssessment{
		Subject:         form.Subject,
		Topic:           form.Topic,
		DifficultyLevel: form.Difficulty,
	})
	if err != nil {
		return err
	}
	a.Logger.Info("Assessment created", "assessment_id", as.ID, "subject", as.Subject, "topic", as.Topic)
	a.Router.Navigate(RouteAssessmentTake, "id", as.ID)
	return nil
}

const takeHelp = `Commands:
  <text>        answer (for MCQs the option number or its text)
  /n  /p        next / previous question
  /i <path>     attach an image of a handwritten answer
  /o <path>     extract text from an image into the answer
  /s            submit
  /q            quit without submitting`

func (a *App) takeAssessment(ctx context.Context, route Route) error {
	as, err := a.Client.Assessments.Get(ctx, route.Param("id"))
	if err != nil {
		return err
	}
	if as.Completed() {
		fmt.Fprintln(a.Out, "This assessment has already been submitted.")
		a.Router.Navigate(RouteAssessmentFeedback, "id", as.ID)
		return nil
	}
	if len(as.Questions) == 0 {
		fmt.Fprintln(a.Out, "This assessment has no questions.")
		return nil
	}

	a.Attempt.Load(*as)
	a.heading(fmt.Sprintf("%s: %s (%s)", subjectName(as.Subject), as.Topic, as.DifficultyLevel))
	fmt.Fprintln(a.Out, takeHelp)

	for {
		q, _ := a.Attempt.Current()
		a.showQuestion(q)

		line, err := a.Prompter.Ask(">")
		if err != nil {
			return err
		}
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch {
		case line == "":
		case line == "/n":
			if a.Attempt.IsLast() {
				fmt.Fprintln(a.Out, "This is the last question. Type /s to submit.")
			}
			a.Attempt.Advance()
		case line == "/p":
			a.Attempt.Retreat()
		case line == "/q":
			a.Attempt.Reset()
			fmt.Fprintln(a.Out, "Attempt abandoned. Your answers were not submitted.")
			return nil
		case line == "/s":
			done, err := a.submitAttempt(ctx)
			if err != nil || done {
				return err
			}
		case cmd == "/i" && arg != "":
			a.attachImage(ctx, q, arg)
		case cmd == "/o" && arg != "":
			if err := a.extractAnswer(ctx, q, arg); err != nil {
				return err
			}
		case strings.HasPrefix(line, "/"):
			fmt.Fprintln(a.Out, takeHelp)
		default:
			a.recordAnswer(q, line)
		}
	}
}

func (a *App) showQuestion(q domain.Question) {
	as, _ := a.Attempt.Assessment()
	fmt.Fprintf(a.Out, "\nQuestion %d of %d  [%s, %d marks]  answered %d/%d\n",
		a.Attempt.Position()+1, len(as.Questions), questionKind(q.Type), q.MaxMarks,
		a.Attempt.Answered(), len(as.Questions))
	fmt.Fprintln(a.Out, q.Text)
	for i, opt := range q.Options {
		fmt.Fprintf(a.Out, "  %d) %s\n", i+1, opt)
	}
	if r, ok := a.Attempt.Response(q.ID); ok {
		fmt.Fprintf(a.Out, "Your answer: %s", r.Answer)
		if r.ImageRef != "" {
			fmt.Fprint(a.Out, " [image attached]")
		}
		fmt.Fprintln(a.Out)
	}
}

// recordAnswer stores input as the answer to q, keeping any attached image.
// For single-choice questions an option number selects that option's text.
func (a *App) recordAnswer(q domain.Question, input string) {
	answer := input
	if q.Type == domain.QuestionSingleChoice {
		if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(q.Options) {
			answer = q.Options[n-1]
		}
	}
	prev, _ := a.Attempt.Response(q.ID)

	form := forms.Answer{Type: q.Type, Answer: answer, ImageRef: prev.ImageRef, Options: q.Options}
	if err := forms.Validate(form); err != nil {
		if !a.printValidation(err) {
			fmt.Fprintf(a.Out, "  ! %s\n", err)
		}
		return
	}
	a.Attempt.RecordResponse(q.ID, form.Answer, form.ImageRef)
}

func (a *App) attachImage(ctx context.Context, q domain.Question, path string) {
	if q.Type != domain.QuestionFreeResponse {
		fmt.Fprintln(a.Out, "Images can only be attached to subjective questions.")
		return
	}
	ref, err := a.Uploader.Upload(ctx, path)
	if err != nil {
		a.Logger.Warn("Image upload failed", "path", path, "error", err)
		fmt.Fprintf(a.Out, "Could not attach image: %s\n", describe(err))
		return
	}
	prev, _ := a.Attempt.Response(q.ID)
	a.Attempt.RecordResponse(q.ID, prev.Answer, ref)
	fmt.Fprintln(a.Out, "Image attached.")
}

// extractAnswer runs OCR on an image and appends the text to the answer.
func (a *App) extractAnswer(ctx context.Context, q domain.Question, path string) error {
	if q.Type != domain.QuestionFreeResponse {
		fmt.Fprintln(a.Out, "Text extraction only applies to subjective questions.")
		return nil
	}
	img, err := uploads.ReadImage(path)
	if err != nil {
		fmt.Fprintf(a.Out, "Could not read image: %s\n", describe(err))
		return nil
	}
	res, err := a.Client.Evaluation.ExtractText(ctx, img.Name, img.ContentType, img.Reader())
	if err != nil {
		return a.degrade("extracted text", err)
	}
	fmt.Fprintf(a.Out, "Extracted (confidence %.0f%%): %s\n", res.Confidence*100, res.ExtractedText)

	prev, _ := a.Attempt.Response(q.ID)
	answer := strings.TrimSpace(strings.Join([]string{prev.Answer, res.ExtractedText}, "\n"))
	a.Attempt.RecordResponse(q.ID, answer, prev.ImageRef)
	return nil
}

// submitAttempt posts every recorded response. It reports done once the
// attempt is submitted or the user declines to leave questions unanswered.
func (a *App) submitAttempt(ctx context.Context) (bool, error) {
	as, ok := a.Attempt.Assessment()
	if !ok {
		return false, ErrNoAttempt
	}
	if missing := len(as.Questions) - a.Attempt.Answered(); missing > 0 {
		sure, err := a.Prompter.Confirm(fmt.Sprintf("%d question(s) unanswered. Submit anyway?", missing))
		if err != nil {
			return false, err
		}
		if !sure {
			return false, nil
		}
	}

	responses := a.Attempt.Responses()
	if _, err := a.Client.Assessments.Submit(ctx, as.ID, responses); err != nil {
		if errors.Is(err, apiclient.ErrSessionExpired) || ctx.Err() != nil {
			return false, err
		}
		a.Logger.Warn("Submit failed", "assessment_id", as.ID, "error", err)
		fmt.Fprintf(a.Out, "Submission failed: %s\nYour answers are kept; type /s to try again.\n", describe(err))
		return false, nil
	}

	a.Logger.Info("Assessment submitted", "assessment_id", as.ID, "responses", len(responses))
	a.Attempt.Reset()
	fmt.Fprintln(a.Out, "Assessment submitted successfully.")
	a.Router.Navigate(RouteAssessmentFeedback, "id", as.ID)
	return true, nil
}
