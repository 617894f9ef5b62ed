package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	carRepo "avtorent/database/repository/car"
	"avtorent/models"
	"avtorent/services/storage"
)

type fakeCategories struct {
	cats   []models.Category
	getErr error
}

func (f *fakeCategories) GetAll(activeOnly bool) ([]models.Category, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if !activeOnly {
		return f.cats, nil
	}
	var active []models.Category
	for _, c := range f.cats {
		if c.IsActive {
			active = append(active, c)
		}
	}
	return active, nil
}

func (f *fakeCategories) GetByID(id string) (*models.Category, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for i := range f.cats {
		if f.cats[i].ID == id {
			return &f.cats[i], nil
		}
	}
	return nil, nil
}

func (f *fakeCategories) Count() (int64, error) { return int64(len(f.cats)), nil }

type fakeCars struct {
	mu             sync.Mutex
	cars           []*models.Car
	failIns        error
	mangleReadBack bool
}

func (f *fakeCars) Create(car *models.Car) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIns != nil {
		return f.failIns
	}
	for _, c := range f.cars {
		if c.LicensePlate == car.LicensePlate {
			return fmt.Errorf("insert failed: %w", carRepo.ErrDuplicatePlate)
		}
	}
	cp := *car
	f.cars = append(f.cars, &cp)
	return nil
}

func (f *fakeCars) GetByID(id string) (*models.Car, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.cars {
		if c.ID == id {
			cp := *c
			if f.mangleReadBack {
				cp.Images = []string{"https://res.cloudinary.com/demo/image/upload/v1/somewhere/else.jpg"}
			}
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCars) List(filter models.CarFilter, limit, offset int) ([]models.Car, int64, error) {
	return nil, 0, nil
}
func (f *fakeCars) ListAll() ([]models.Car, error)                        { return nil, nil }
func (f *fakeCars) UpdateField(id, field string, value interface{}) error { return nil }
func (f *fakeCars) Delete(id string) error                                { return nil }
func (f *fakeCars) Count() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.cars)), nil
}

type fakePhotos struct {
	mu      sync.Mutex
	saves   int
	degrade bool
	saveErr error
	deleted []string
}

func (f *fakePhotos) Save(ctx context.Context, localPath, ownerKey string, index int) (storage.SaveResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return storage.SaveResult{}, f.saveErr
	}
	f.saves++
	if f.degrade {
		return storage.SaveResult{
			URL:      fmt.Sprintf("/static/uploads/cars/%s_%d.jpg", strings.ReplaceAll(ownerKey, "/", "_"), index),
			Backend:  storage.BackendLocal,
			Degraded: true,
		}, nil
	}
	return storage.SaveResult{
		URL:     fmt.Sprintf("https://res.cloudinary.com/demo/image/upload/v1/%s/photo_%d.jpg", ownerKey, index),
		Backend: storage.BackendCloudinary,
	}, nil
}

func (f *fakePhotos) Delete(ctx context.Context, url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, url)
	return true
}

func (f *fakePhotos) Primary() storage.Backend { return storage.BackendCloudinary }

type cleanupCall struct {
	draftKey string
	urls     []string
}

type fakeCleanup struct {
	mu    sync.Mutex
	calls []cleanupCall
}

func (f *fakeCleanup) EnqueuePhotoCleanup(draftKey string, urls []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, cleanupCall{draftKey: draftKey, urls: urls})
	return nil
}

var testTime = time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

func newTestWorkflow(t *testing.T) (*Workflow, *fakeCars, *fakePhotos, *fakeCleanup) {
	t.Helper()
	categories := &fakeCategories{cats: []models.Category{
		{ID: "cat-suv", Name: "SUV", IsActive: true},
		{ID: "cat-old", Name: "Retired", IsActive: false},
	}}
	cars := &fakeCars{}
	photos := &fakePhotos{}
	cleanup := &fakeCleanup{}
	flow := NewWorkflow(categories, cars, photos, NewMemoryStore(), cleanup, nil)
	flow.now = func() time.Time { return testTime }
	return flow, cars, photos, cleanup
}

func send(t *testing.T, flow *Workflow, adminID int64, ev Event) []Reply {
	t.Helper()
	replies, err := flow.HandleEvent(context.Background(), adminID, ev)
	if err != nil {
		t.Fatalf("HandleEvent(%v) unexpected error: %v", ev, err)
	}
	if len(replies) == 0 {
		t.Fatalf("HandleEvent(%v) returned no replies", ev)
	}
	return replies
}

func text(s string) Event   { return Event{Type: EventText, Text: s} }
func choose(s string) Event { return Event{Type: EventSelect, Choice: s} }
func photo(p string) Event  { return Event{Type: EventPhoto, PhotoPath: p} }

// driveToPhotos walks a fresh session up to the PHOTOS state.
func driveToPhotos(t *testing.T, flow *Workflow, adminID int64, plate string) {
	t.Helper()
	if _, err := flow.Start(context.Background(), adminID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	send(t, flow, adminID, text("Toyota"))
	send(t, flow, adminID, text("Camry"))
	send(t, flow, adminID, text("2023"))
	send(t, flow, adminID, text(plate))
	send(t, flow, adminID, choose("cat-suv"))
	send(t, flow, adminID, text("2.5"))
	send(t, flow, adminID, text("200"))
	send(t, flow, adminID, text("petrol"))
	send(t, flow, adminID, choose("AUTOMATIC"))
	send(t, flow, adminID, text("8,5"))
	send(t, flow, adminID, text("4"))
	send(t, flow, adminID, text("5"))
	send(t, flow, adminID, text("black"))
	send(t, flow, adminID, text("2500"))
	send(t, flow, adminID, text("10000"))
	send(t, flow, adminID, text("15000"))
	send(t, flow, adminID, text("ac, heated seats"))
	send(t, flow, adminID, text("Clean family sedan"))
}

func TestGuidedEntryHappyPath(t *testing.T) {
	flow, cars, _, _ := newTestWorkflow(t)
	const admin = int64(10)

	driveToPhotos(t, flow, admin, "a123bc")
	send(t, flow, admin, photo("/tmp/p1.jpg"))
	send(t, flow, admin, photo("/tmp/p2.jpg"))
	send(t, flow, admin, photo("/tmp/p3.jpg"))

	replies := send(t, flow, admin, Event{Type: EventDone})
	if len(replies[0].Choices) != 2 {
		t.Fatalf("confirm reply should carry save/cancel choices, got %v", replies[0].Choices)
	}
	if !strings.Contains(replies[0].Text, "Toyota Camry (2023)") {
		t.Errorf("summary missing car name: %q", replies[0].Text)
	}

	replies = send(t, flow, admin, choose("save"))
	if !strings.Contains(replies[0].Text, "Saved:") {
		t.Fatalf("expected save confirmation, got %q", replies[0].Text)
	}

	if len(cars.cars) != 1 {
		t.Fatalf("expected exactly one car persisted, got %d", len(cars.cars))
	}
	car := cars.cars[0]
	if car.LicensePlate != "A123BC" {
		t.Errorf("plate not upper-cased: %q", car.LicensePlate)
	}
	if car.Status != models.CarStatusAvailable {
		t.Errorf("new car should be AVAILABLE, got %s", car.Status)
	}
	if car.FuelConsumption != 8.5 {
		t.Errorf("comma decimal not parsed: %v", car.FuelConsumption)
	}
	if len(car.Images) != 3 || car.Thumbnail != car.Images[0] {
		t.Errorf("thumbnail should be the first photo: thumb=%q images=%v", car.Thumbnail, car.Images)
	}
	for i, url := range car.Images {
		if !strings.HasSuffix(url, fmt.Sprintf("photo_%d.jpg", i+1)) {
			t.Errorf("images out of upload order at %d: %v", i, car.Images)
		}
	}
	if car.CategoryID != "cat-suv" {
		t.Errorf("category not recorded: %q", car.CategoryID)
	}
	if len(car.Features) != 2 {
		t.Errorf("features not split: %v", car.Features)
	}

	active, err := flow.Active(context.Background(), admin)
	if err != nil || active {
		t.Errorf("session should be gone after commit, active=%v err=%v", active, err)
	}
}

func TestInvalidInputKeepsStateAndDraft(t *testing.T) {
	flow, _, _, _ := newTestWorkflow(t)
	const admin = int64(11)

	if _, err := flow.Start(context.Background(), admin); err != nil {
		t.Fatalf("Start: %v", err)
	}
	send(t, flow, admin, text("Toyota"))
	send(t, flow, admin, text("Camry"))

	for _, bad := range []string{"abc", "1899", "2028", "-1"} {
		replies := send(t, flow, admin, text(bad))
		if !strings.Contains(replies[0].Text, "valid year") {
			t.Errorf("year %q should re-prompt, got %q", bad, replies[0].Text)
		}
	}

	// Boundary years are accepted; next prompt is the license plate.
	replies := send(t, flow, admin, text("2027"))
	if !strings.Contains(replies[0].Text, "license plate") {
		t.Fatalf("year 2027 (current+1) should be accepted, got %q", replies[0].Text)
	}

	sess, err := flow.Sessions.Get(context.Background(), admin)
	if err != nil || sess == nil {
		t.Fatalf("session lost: %v", err)
	}
	if sess.Draft.Brand != "Toyota" || sess.Draft.Model != "Camry" {
		t.Errorf("draft corrupted by rejected input: %+v", sess.Draft)
	}
}

func TestSelectionStatesRejectText(t *testing.T) {
	flow, _, _, _ := newTestWorkflow(t)
	const admin = int64(12)

	if _, err := flow.Start(context.Background(), admin); err != nil {
		t.Fatalf("Start: %v", err)
	}
	send(t, flow, admin, text("Kia"))
	send(t, flow, admin, text("Rio"))
	send(t, flow, admin, text("2020"))
	replies := send(t, flow, admin, text("B777XX"))
	if len(replies[0].Choices) != 1 {
		t.Fatalf("category prompt should list one active category, got %v", replies[0].Choices)
	}

	replies = send(t, flow, admin, text("SUV"))
	if replies[0].Text != msgPickButton {
		t.Errorf("typed text at a selection step should re-prompt, got %q", replies[0].Text)
	}

	sess, _ := flow.Sessions.Get(context.Background(), admin)
	if sess.State != StateCategory {
		t.Errorf("state should stay CATEGORY, got %s", sess.State)
	}
}

func TestInactiveCategoryAbortsEntry(t *testing.T) {
	flow, _, _, _ := newTestWorkflow(t)
	const admin = int64(13)

	if _, err := flow.Start(context.Background(), admin); err != nil {
		t.Fatalf("Start: %v", err)
	}
	send(t, flow, admin, text("Kia"))
	send(t, flow, admin, text("Rio"))
	send(t, flow, admin, text("2020"))
	send(t, flow, admin, text("B777XX"))

	replies := send(t, flow, admin, choose("cat-old"))
	if !strings.Contains(replies[0].Text, "no longer available") {
		t.Fatalf("inactive category should abort, got %q", replies[0].Text)
	}

	active, _ := flow.Active(context.Background(), admin)
	if active {
		t.Error("session should be discarded after category conflict")
	}
}

func TestPhotosRequireAtLeastOne(t *testing.T) {
	flow, cars, _, _ := newTestWorkflow(t)
	const admin = int64(14)

	driveToPhotos(t, flow, admin, "C001AA")
	replies := send(t, flow, admin, Event{Type: EventDone})
	if replies[0].Text != msgNeedOnePhoto {
		t.Fatalf("done with zero photos should be rejected, got %q", replies[0].Text)
	}
	if n, _ := cars.Count(); n != 0 {
		t.Errorf("no car should exist yet, got %d", n)
	}

	sess, _ := flow.Sessions.Get(context.Background(), admin)
	if sess == nil || sess.State != StatePhotos {
		t.Fatalf("state should stay PHOTOS, got %+v", sess)
	}
}

func TestCommitFailsWhenAllPhotosDegraded(t *testing.T) {
	flow, cars, photos, cleanup := newTestWorkflow(t)
	photos.degrade = true
	const admin = int64(15)

	driveToPhotos(t, flow, admin, "D002BB")
	send(t, flow, admin, photo("/tmp/p1.jpg"))
	send(t, flow, admin, Event{Type: EventDone})
	replies := send(t, flow, admin, choose("save"))

	if !strings.Contains(replies[0].Text, "not saved") {
		t.Fatalf("all-degraded commit should fail, got %q", replies[0].Text)
	}
	if n, _ := cars.Count(); n != 0 {
		t.Errorf("nothing should be persisted, got %d cars", n)
	}
	if active, _ := flow.Active(context.Background(), admin); active {
		t.Error("session should be discarded")
	}

	cleanup.mu.Lock()
	defer cleanup.mu.Unlock()
	if len(cleanup.calls) == 0 || len(cleanup.calls[len(cleanup.calls)-1].urls) != 1 {
		t.Errorf("degraded photo should be queued for cleanup, calls=%v", cleanup.calls)
	}
}

func TestPhotoFailureKeepsEarlierPhotos(t *testing.T) {
	flow, _, photos, _ := newTestWorkflow(t)
	const admin = int64(25)

	driveToPhotos(t, flow, admin, "K006GG")
	send(t, flow, admin, photo("/tmp/p1.jpg"))

	photos.mu.Lock()
	photos.saveErr = errors.New("both backends down")
	photos.mu.Unlock()

	replies := send(t, flow, admin, photo("/tmp/p2.jpg"))
	if !strings.Contains(replies[0].Text, "try again") {
		t.Fatalf("failed upload should re-prompt, got %q", replies[0].Text)
	}

	sess, err := flow.Sessions.Get(context.Background(), admin)
	if err != nil || sess == nil {
		t.Fatalf("session lost after upload failure: %v", err)
	}
	if sess.State != StatePhotos {
		t.Errorf("state should stay PHOTOS, got %s", sess.State)
	}
	if len(sess.Draft.Photos) != 1 {
		t.Fatalf("earlier photo discarded: have %d, want 1", len(sess.Draft.Photos))
	}

	photos.mu.Lock()
	photos.saveErr = nil
	photos.mu.Unlock()

	send(t, flow, admin, photo("/tmp/p2.jpg"))
	send(t, flow, admin, Event{Type: EventDone})
	replies = send(t, flow, admin, choose("save"))
	if !strings.Contains(replies[0].Text, "Saved:") {
		t.Fatalf("entry should complete after the store recovers, got %q", replies[0].Text)
	}
}

func TestCommitWarnsWhenStoredPhotosDiverge(t *testing.T) {
	flow, cars, _, _ := newTestWorkflow(t)
	cars.mangleReadBack = true
	const admin = int64(26)

	driveToPhotos(t, flow, admin, "M007HH")
	send(t, flow, admin, photo("/tmp/p1.jpg"))
	send(t, flow, admin, Event{Type: EventDone})
	replies := send(t, flow, admin, choose("save"))

	if !strings.Contains(replies[0].Text, "Saved:") {
		t.Fatalf("commit itself should succeed, got %q", replies[0].Text)
	}
	if !strings.Contains(replies[0].Text, "do not match") {
		t.Fatalf("diverging read-back should warn, got %q", replies[0].Text)
	}
}

func TestDuplicatePlateAborts(t *testing.T) {
	flow, cars, _, _ := newTestWorkflow(t)
	const first, second = int64(16), int64(17)

	driveToPhotos(t, flow, first, "E003CC")
	send(t, flow, first, photo("/tmp/p1.jpg"))
	send(t, flow, first, Event{Type: EventDone})
	send(t, flow, first, choose("save"))

	driveToPhotos(t, flow, second, "E003CC")
	send(t, flow, second, photo("/tmp/p1.jpg"))
	send(t, flow, second, Event{Type: EventDone})
	replies := send(t, flow, second, choose("save"))

	if !strings.Contains(replies[0].Text, "E003CC") || !strings.Contains(replies[0].Text, "already exists") {
		t.Fatalf("duplicate plate should abort with a clear message, got %q", replies[0].Text)
	}
	if n, _ := cars.Count(); n != 1 {
		t.Errorf("only the first car should exist, got %d", n)
	}
	if active, _ := flow.Active(context.Background(), second); active {
		t.Error("second session should be discarded")
	}
}

func TestCancelDiscardsSessionAndQueuesCleanup(t *testing.T) {
	flow, _, _, cleanup := newTestWorkflow(t)
	const admin = int64(18)

	driveToPhotos(t, flow, admin, "F004DD")
	send(t, flow, admin, photo("/tmp/p1.jpg"))
	send(t, flow, admin, photo("/tmp/p2.jpg"))

	reply, err := flow.Cancel(context.Background(), admin)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if reply.Text != msgCancelled {
		t.Errorf("unexpected cancel reply %q", reply.Text)
	}
	if active, _ := flow.Active(context.Background(), admin); active {
		t.Error("session should be gone after cancel")
	}

	cleanup.mu.Lock()
	defer cleanup.mu.Unlock()
	if len(cleanup.calls) != 1 || len(cleanup.calls[0].urls) != 2 {
		t.Fatalf("cancel should queue both uploaded photos for cleanup, calls=%v", cleanup.calls)
	}
}

func TestCancelWithoutSession(t *testing.T) {
	flow, _, _, _ := newTestWorkflow(t)
	reply, err := flow.Cancel(context.Background(), 99)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if reply.Text != msgNoSession {
		t.Errorf("expected no-session message, got %q", reply.Text)
	}
}

func TestEventWithoutSession(t *testing.T) {
	flow, _, _, _ := newTestWorkflow(t)
	replies := send(t, flow, 100, text("Toyota"))
	if replies[0].Text != msgNoSession {
		t.Errorf("expected no-session message, got %q", replies[0].Text)
	}
}

func TestRestartReplacesSessionAndQueuesOldPhotos(t *testing.T) {
	flow, _, _, cleanup := newTestWorkflow(t)
	const admin = int64(19)

	driveToPhotos(t, flow, admin, "G005EE")
	send(t, flow, admin, photo("/tmp/p1.jpg"))

	if _, err := flow.Start(context.Background(), admin); err != nil {
		t.Fatalf("Start: %v", err)
	}

	sess, _ := flow.Sessions.Get(context.Background(), admin)
	if sess.State != StateBrand || sess.Draft.Brand != "" || len(sess.Draft.Photos) != 0 {
		t.Errorf("restart should give a fresh draft, got %+v", sess.Draft)
	}

	cleanup.mu.Lock()
	defer cleanup.mu.Unlock()
	if len(cleanup.calls) != 1 || len(cleanup.calls[0].urls) != 1 {
		t.Errorf("replaced draft's photo should be queued for cleanup, calls=%v", cleanup.calls)
	}
}

func TestConcurrentAdminsAreIsolated(t *testing.T) {
	flow, cars, _, _ := newTestWorkflow(t)
	ctx := context.Background()

	runEntry := func(adminID int64, plate string) error {
		if _, err := flow.Start(ctx, adminID); err != nil {
			return err
		}
		events := []Event{
			text("Toyota"), text("Camry"), text("2023"), text(plate),
			choose("cat-suv"), text("2.5"), text("200"), text("petrol"),
			choose("AUTOMATIC"), text("8.5"), text("4"), text("5"),
			text("black"), text("2500"), text("10000"), text("15000"),
			text("no"), text("no"),
			photo("/tmp/p.jpg"), {Type: EventDone}, choose("save"),
		}
		for _, ev := range events {
			if _, err := flow.HandleEvent(ctx, adminID, ev); err != nil {
				return err
			}
		}
		return nil
	}

	errs := make(chan error, 4)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			errs <- runEntry(int64(200+n), fmt.Sprintf("H%03dFF", n))
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent entry failed: %v", err)
		}
	}

	if n, _ := cars.Count(); n != 4 {
		t.Fatalf("each admin should persist one car, got %d", n)
	}
}
