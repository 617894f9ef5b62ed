package workflow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"avtorent/models"
)

// textStep parses and applies one free-text answer, then names the next state.
type textStep struct {
	prompt string
	apply  func(w *Workflow, d *Draft, text string) error
	next   State
}

// skipWords let the administrator pass on optional free-text steps.
var skipWords = map[string]bool{"no": true, "none": true, "-": true, "нет": true}

func parseFloatField(text, what string, min float64, allowEqual bool) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(text), ",", "."), 64)
	if err != nil {
		return 0, validationf("Please enter a valid %s:", what)
	}
	if v < min || (!allowEqual && v == min) {
		return 0, validationf("Please enter a valid %s:", what)
	}
	return v, nil
}

func parseIntField(text, what string, min int, allowEqual bool) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, validationf("Please enter a valid %s:", what)
	}
	if v < min || (!allowEqual && v == min) {
		return 0, validationf("Please enter a valid %s:", what)
	}
	return v, nil
}

var textSteps = map[State]textStep{
	StateBrand: {
		prompt: promptBrand,
		apply: func(w *Workflow, d *Draft, text string) error {
			if strings.TrimSpace(text) == "" {
				return validationf("Please enter the brand:")
			}
			d.Brand = strings.TrimSpace(text)
			return nil
		},
		next: StateModel,
	},
	StateModel: {
		prompt: promptModel,
		apply: func(w *Workflow, d *Draft, text string) error {
			if strings.TrimSpace(text) == "" {
				return validationf("Please enter the model:")
			}
			d.Model = strings.TrimSpace(text)
			return nil
		},
		next: StateYear,
	},
	StateYear: {
		prompt: promptYear,
		apply: func(w *Workflow, d *Draft, text string) error {
			year, err := strconv.Atoi(strings.TrimSpace(text))
			if err != nil || year < 1900 || year > w.now().Year()+1 {
				return validationf("Please enter a valid year (e.g. 2023):")
			}
			d.Year = year
			return nil
		},
		next: StateLicensePlate,
	},
	StateLicensePlate: {
		prompt: promptLicensePlate,
		apply: func(w *Workflow, d *Draft, text string) error {
			plate := strings.ToUpper(strings.TrimSpace(text))
			if plate == "" {
				return validationf("Please enter the license plate:")
			}
			d.LicensePlate = plate
			return nil
		},
		next: StateCategory,
	},
	StateEngineCapacity: {
		prompt: promptEngineCapacity,
		apply: func(w *Workflow, d *Draft, text string) error {
			v, err := parseFloatField(text, "engine capacity (e.g. 2.0)", 0, false)
			if err != nil {
				return err
			}
			d.EngineCapacity = v
			return nil
		},
		next: StateHorsepower,
	},
	StateHorsepower: {
		prompt: promptHorsepower,
		apply: func(w *Workflow, d *Draft, text string) error {
			v, err := parseIntField(text, "horsepower (e.g. 150)", 0, false)
			if err != nil {
				return err
			}
			d.Horsepower = v
			return nil
		},
		next: StateFuelType,
	},
	StateFuelType: {
		prompt: promptFuelType,
		apply: func(w *Workflow, d *Draft, text string) error {
			if strings.TrimSpace(text) == "" {
				return validationf("Please enter the fuel type:")
			}
			d.FuelType = strings.TrimSpace(text)
			return nil
		},
		next: StateTransmission,
	},
	StateFuelConsumption: {
		prompt: promptFuelConsumption,
		apply: func(w *Workflow, d *Draft, text string) error {
			v, err := parseFloatField(text, "consumption (e.g. 8.5)", 0, false)
			if err != nil {
				return err
			}
			d.FuelConsumption = v
			return nil
		},
		next: StateDoors,
	},
	StateDoors: {
		prompt: promptDoors,
		apply: func(w *Workflow, d *Draft, text string) error {
			v, err := parseIntField(text, "number of doors (e.g. 4)", 0, false)
			if err != nil {
				return err
			}
			d.Doors = v
			return nil
		},
		next: StateSeats,
	},
	StateSeats: {
		prompt: promptSeats,
		apply: func(w *Workflow, d *Draft, text string) error {
			v, err := parseIntField(text, "number of seats (e.g. 5)", 0, false)
			if err != nil {
				return err
			}
			d.Seats = v
			return nil
		},
		next: StateColor,
	},
	StateColor: {
		prompt: promptColor,
		apply: func(w *Workflow, d *Draft, text string) error {
			if strings.TrimSpace(text) == "" {
				return validationf("Please enter the color:")
			}
			d.Color = strings.TrimSpace(text)
			return nil
		},
		next: StateDailyPrice,
	},
	StateDailyPrice: {
		prompt: promptDailyPrice,
		apply: func(w *Workflow, d *Draft, text string) error {
			v, err := parseFloatField(text, "price (e.g. 2500)", 0, false)
			if err != nil {
				return err
			}
			d.DailyPrice = v
			return nil
		},
		next: StateDeposit,
	},
	StateDeposit: {
		prompt: promptDeposit,
		apply: func(w *Workflow, d *Draft, text string) error {
			v, err := parseFloatField(text, "deposit (e.g. 10000)", 0, true)
			if err != nil {
				return err
			}
			d.Deposit = v
			return nil
		},
		next: StateMileage,
	},
	StateMileage: {
		prompt: promptMileage,
		apply: func(w *Workflow, d *Draft, text string) error {
			v, err := parseIntField(text, "mileage (e.g. 15000)", 0, true)
			if err != nil {
				return err
			}
			d.Mileage = v
			return nil
		},
		next: StateFeatures,
	},
	StateFeatures: {
		prompt: promptFeatures,
		apply: func(w *Workflow, d *Draft, text string) error {
			text = strings.TrimSpace(text)
			if skipWords[strings.ToLower(text)] {
				d.Features = nil
				return nil
			}
			var features []string
			for _, f := range strings.Split(text, ",") {
				if f = strings.TrimSpace(f); f != "" {
					features = append(features, f)
				}
			}
			d.Features = features
			return nil
		},
		next: StateDescription,
	},
	StateDescription: {
		prompt: promptDescription,
		apply: func(w *Workflow, d *Draft, text string) error {
			text = strings.TrimSpace(text)
			if skipWords[strings.ToLower(text)] {
				d.Description = ""
				return nil
			}
			d.Description = text
			return nil
		},
		next: StatePhotos,
	},
}

// advance runs one transition. It returns done=true when the session reached
// a terminal outcome (commit or abort) and must be discarded by the caller.
// ValidationErrors never escape: they become re-prompt replies for the same
// state. Errors that do escape are terminal (conflict, upstream, fault).
func (w *Workflow) advance(ctx context.Context, sess *Session, ev Event) (replies []Reply, done bool, err error) {
	switch sess.State {
	case StateCategory:
		return w.advanceCategory(ctx, sess, ev)
	case StateTransmission:
		return w.advanceTransmission(ctx, sess, ev)
	case StatePhotos:
		return w.advancePhotos(ctx, sess, ev)
	case StateConfirm:
		return w.advanceConfirm(ctx, sess, ev)
	}

	step, ok := textSteps[sess.State]
	if !ok {
		return nil, false, &UpstreamError{Op: "advance", Err: fmt.Errorf("no step for state %s", sess.State)}
	}
	if ev.Type != EventText {
		return []Reply{{Text: step.prompt}}, false, nil
	}
	if applyErr := step.apply(w, &sess.Draft, ev.Text); applyErr != nil {
		var ve *ValidationError
		if errors.As(applyErr, &ve) {
			return []Reply{{Text: ve.Message}}, false, nil
		}
		return nil, false, applyErr
	}
	sess.State = step.next
	reply, err := w.promptFor(ctx, sess, step.next)
	if err != nil {
		return nil, false, err
	}
	return []Reply{reply}, false, nil
}

// promptFor builds the prompt for a freshly entered state. CATEGORY is the
// only prompt that needs live data: the active category list.
func (w *Workflow) promptFor(ctx context.Context, sess *Session, state State) (Reply, error) {
	switch state {
	case StateCategory:
		categories, err := w.Categories.GetAll(true)
		if err != nil {
			return Reply{}, &UpstreamError{Op: "load categories", Err: err}
		}
		if len(categories) == 0 {
			return Reply{}, &ConflictError{Message: "No categories available."}
		}
		choices := make([]Choice, 0, len(categories))
		for _, c := range categories {
			choices = append(choices, Choice{ID: c.ID, Label: c.Name})
		}
		return Reply{Text: promptCategory, Choices: choices}, nil
	case StateTransmission:
		return Reply{Text: promptTransmission, Choices: transmissionChoices}, nil
	case StatePhotos:
		return Reply{Text: promptPhotos}, nil
	}
	if step, ok := textSteps[state]; ok {
		return Reply{Text: step.prompt}, nil
	}
	return Reply{}, &UpstreamError{Op: "prompt", Err: fmt.Errorf("no prompt for state %s", state)}
}

func (w *Workflow) advanceCategory(ctx context.Context, sess *Session, ev Event) ([]Reply, bool, error) {
	if ev.Type != EventSelect {
		return []Reply{{Text: msgPickButton}}, false, nil
	}
	category, err := w.Categories.GetByID(ev.Choice)
	if err != nil {
		return nil, false, &UpstreamError{Op: "load category", Err: err}
	}
	if category == nil || !category.IsActive {
		return nil, false, &ConflictError{Message: "The selected category is no longer available."}
	}
	sess.Draft.CategoryID = category.ID
	sess.Draft.CategoryName = category.Name
	sess.State = StateEngineCapacity
	return []Reply{{Text: "Category: " + category.Name + "\n\n" + promptEngineCapacity, Edit: true}}, false, nil
}

func (w *Workflow) advanceTransmission(ctx context.Context, sess *Session, ev Event) ([]Reply, bool, error) {
	if ev.Type != EventSelect {
		return []Reply{{Text: msgPickButton}}, false, nil
	}
	trans, err := models.ParseTransmission(ev.Choice)
	if err != nil {
		return []Reply{{Text: promptTransmission, Choices: transmissionChoices}}, false, nil
	}
	sess.Draft.Transmission = trans
	sess.State = StateFuelConsumption
	return []Reply{{Text: "Transmission: " + string(trans) + "\n\n" + promptFuelConsumption, Edit: true}}, false, nil
}

func (w *Workflow) advancePhotos(ctx context.Context, sess *Session, ev Event) ([]Reply, bool, error) {
	switch ev.Type {
	case EventPhoto:
		index := len(sess.Draft.Photos) + 1
		result, err := w.Photos.Save(ctx, ev.PhotoPath, sess.DraftKey, index)
		if err != nil {
			// Both backends failed; prior photos stay untouched.
			w.logError("photo upload failed", err)
			return []Reply{{Text: "Failed to store the photo. Please try again."}}, false, nil
		}
		sess.Draft.Photos = append(sess.Draft.Photos, result)
		text := "Photo stored.\n" +
			"Photos uploaded: " + itoa(len(sess.Draft.Photos)) + "\n" +
			"Send another photo or /done to continue."
		if result.Degraded {
			text = "Photo stored in the local fallback (remote store unavailable).\n" +
				"It will be dropped on save unless re-uploaded.\n" +
				"Photos uploaded: " + itoa(len(sess.Draft.Photos))
		}
		return []Reply{{Text: text}}, false, nil
	case EventDone:
		if len(sess.Draft.Photos) == 0 {
			return []Reply{{Text: msgNeedOnePhoto}}, false, nil
		}
		sess.State = StateConfirm
		return []Reply{{Text: summary(&sess.Draft), Choices: confirmChoices}}, false, nil
	}
	return []Reply{{Text: msgPhotoExpected}}, false, nil
}

func (w *Workflow) advanceConfirm(ctx context.Context, sess *Session, ev Event) ([]Reply, bool, error) {
	if ev.Type != EventSelect {
		return []Reply{{Text: msgPickButton}}, false, nil
	}
	switch ev.Choice {
	case choiceAbort:
		w.enqueueCleanup(sess.DraftKey, sess.Draft.PhotoURLs())
		return []Reply{{Text: msgAborted, Edit: true}}, true, nil
	case choiceCommit:
		return w.commit(ctx, sess)
	}
	return []Reply{{Text: msgPickButton}}, false, nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
