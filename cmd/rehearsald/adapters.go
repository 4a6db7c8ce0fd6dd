package main

import (
	"context"
	"time"

	"github.com/example/rehearsal-scheduler/internal/application"
	"github.com/example/rehearsal-scheduler/internal/persistence"
	"github.com/example/rehearsal-scheduler/internal/persistence/sqlite"
)

// The adapters below translate between the application's models and the
// persistence models. Repositories whose create and update statements only
// return an error are re-read after the write so services always see the
// stored timestamps.

type userRepositoryAdapter struct {
	users *sqlite.UserRepository
}

func (a *userRepositoryAdapter) CreateUser(ctx context.Context, user application.User, passwordHash string) (application.User, error) {
	record := toStorageUser(user)
	record.PasswordHash = passwordHash
	if err := a.users.CreateUser(ctx, record); err != nil {
		return application.User{}, mapStorageError(err)
	}
	return a.GetUser(ctx, user.ID)
}

func (a *userRepositoryAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	record, err := a.users.GetUser(ctx, id)
	if err != nil {
		return application.User{}, mapStorageError(err)
	}
	return toApplicationUser(record), nil
}

func (a *userRepositoryAdapter) UpdateUser(ctx context.Context, user application.User) (application.User, error) {
	current, err := a.users.GetUser(ctx, user.ID)
	if err != nil {
		return application.User{}, mapStorageError(err)
	}

	record := toStorageUser(user)
	record.PasswordHash = current.PasswordHash
	if err := a.users.UpdateUser(ctx, record); err != nil {
		return application.User{}, mapStorageError(err)
	}
	return a.GetUser(ctx, user.ID)
}

func (a *userRepositoryAdapter) UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error {
	current, err := a.users.GetUser(ctx, userID)
	if err != nil {
		return mapStorageError(err)
	}
	current.PasswordHash = passwordHash
	return mapStorageError(a.users.UpdateUser(ctx, current))
}

type credentialStoreAdapter struct {
	users *sqlite.UserRepository
}

func (a *credentialStoreAdapter) GetUserCredentialsByEmail(ctx context.Context, email string) (application.UserCredentials, error) {
	record, err := a.users.GetUserByEmail(ctx, email)
	if err != nil {
		return application.UserCredentials{}, mapStorageError(err)
	}
	return application.UserCredentials{
		User:         toApplicationUser(record),
		PasswordHash: record.PasswordHash,
	}, nil
}

func (a *credentialStoreAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	record, err := a.users.GetUser(ctx, id)
	if err != nil {
		return application.User{}, mapStorageError(err)
	}
	return toApplicationUser(record), nil
}

type sessionRepositoryAdapter struct {
	sessions *sqlite.SessionRepository
}

func (a *sessionRepositoryAdapter) CreateSession(ctx context.Context, session application.Session) (application.Session, error) {
	record, err := a.sessions.CreateSession(ctx, toStorageSession(session))
	if err != nil {
		return application.Session{}, mapStorageError(err)
	}
	return toApplicationSession(record), nil
}

func (a *sessionRepositoryAdapter) GetSession(ctx context.Context, token string) (application.Session, error) {
	record, err := a.sessions.GetSession(ctx, token)
	if err != nil {
		return application.Session{}, mapStorageError(err)
	}
	return toApplicationSession(record), nil
}

func (a *sessionRepositoryAdapter) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (application.Session, error) {
	record, err := a.sessions.RevokeSession(ctx, token, revokedAt)
	if err != nil {
		return application.Session{}, mapStorageError(err)
	}
	return toApplicationSession(record), nil
}

func (a *sessionRepositoryAdapter) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	return mapStorageError(a.sessions.DeleteExpiredSessions(ctx, reference))
}

type bandRepositoryAdapter struct {
	bands *sqlite.BandRepository
}

func (a *bandRepositoryAdapter) CreateBand(ctx context.Context, band application.Band) (application.Band, error) {
	if err := a.bands.CreateBand(ctx, toStorageBand(band)); err != nil {
		return application.Band{}, mapStorageError(err)
	}
	return a.GetBand(ctx, band.ID)
}

func (a *bandRepositoryAdapter) GetBand(ctx context.Context, id string) (application.Band, error) {
	record, err := a.bands.GetBand(ctx, id)
	if err != nil {
		return application.Band{}, mapStorageError(err)
	}
	return toApplicationBand(record), nil
}

func (a *bandRepositoryAdapter) UpdateBand(ctx context.Context, band application.Band) (application.Band, error) {
	if err := a.bands.UpdateBand(ctx, toStorageBand(band)); err != nil {
		return application.Band{}, mapStorageError(err)
	}
	return a.GetBand(ctx, band.ID)
}

func (a *bandRepositoryAdapter) DeleteBand(ctx context.Context, id string) error {
	return mapStorageError(a.bands.DeleteBand(ctx, id))
}

func (a *bandRepositoryAdapter) ListBandsForUser(ctx context.Context, userID string, asOf time.Time) ([]application.Band, error) {
	records, err := a.bands.ListBandsForUser(ctx, userID, asOf)
	if err != nil {
		return nil, mapStorageError(err)
	}
	bands := make([]application.Band, 0, len(records))
	for _, record := range records {
		bands = append(bands, toApplicationBand(record))
	}
	return bands, nil
}

func (a *bandRepositoryAdapter) AddMember(ctx context.Context, member application.BandMember) (application.BandMember, error) {
	if err := a.bands.AddMember(ctx, toStorageMember(member)); err != nil {
		return application.BandMember{}, mapStorageError(err)
	}
	return a.GetMember(ctx, member.ID)
}

func (a *bandRepositoryAdapter) GetMember(ctx context.Context, memberID string) (application.BandMember, error) {
	record, err := a.bands.GetMember(ctx, memberID)
	if err != nil {
		return application.BandMember{}, mapStorageError(err)
	}
	return toApplicationMember(record), nil
}

func (a *bandRepositoryAdapter) CloseMembership(ctx context.Context, memberID string, leftAt time.Time) error {
	return mapStorageError(a.bands.CloseMembership(ctx, memberID, leftAt))
}

func (a *bandRepositoryAdapter) ListMembersAsOf(ctx context.Context, bandID string, asOf time.Time) ([]application.BandMember, error) {
	records, err := a.bands.ListMembersAsOf(ctx, bandID, asOf)
	if err != nil {
		return nil, mapStorageError(err)
	}
	members := make([]application.BandMember, 0, len(records))
	for _, record := range records {
		members = append(members, toApplicationMember(record))
	}
	return members, nil
}

type songRepositoryAdapter struct {
	songs *sqlite.SongRepository
}

func (a *songRepositoryAdapter) CreateSong(ctx context.Context, song application.Song) (application.Song, error) {
	if err := a.songs.CreateSong(ctx, toStorageSong(song)); err != nil {
		return application.Song{}, mapStorageError(err)
	}
	return a.GetSong(ctx, song.ID)
}

func (a *songRepositoryAdapter) GetSong(ctx context.Context, id string) (application.Song, error) {
	record, err := a.songs.GetSong(ctx, id)
	if err != nil {
		return application.Song{}, mapStorageError(err)
	}
	return toApplicationSong(record), nil
}

func (a *songRepositoryAdapter) UpdateSong(ctx context.Context, song application.Song) (application.Song, error) {
	if err := a.songs.UpdateSong(ctx, toStorageSong(song)); err != nil {
		return application.Song{}, mapStorageError(err)
	}
	return a.GetSong(ctx, song.ID)
}

func (a *songRepositoryAdapter) DeleteSong(ctx context.Context, id string) error {
	return mapStorageError(a.songs.DeleteSong(ctx, id))
}

func (a *songRepositoryAdapter) ListSongs(ctx context.Context, bandID string) ([]application.Song, error) {
	records, err := a.songs.ListSongs(ctx, bandID)
	if err != nil {
		return nil, mapStorageError(err)
	}
	songs := make([]application.Song, 0, len(records))
	for _, record := range records {
		songs = append(songs, toApplicationSong(record))
	}
	return songs, nil
}

type setlistRepositoryAdapter struct {
	setlists *sqlite.SetlistRepository
}

func (a *setlistRepositoryAdapter) CreateSetlist(ctx context.Context, setlist application.Setlist) (application.Setlist, error) {
	if err := a.setlists.CreateSetlist(ctx, toStorageSetlist(setlist)); err != nil {
		return application.Setlist{}, mapStorageError(err)
	}
	return a.GetSetlist(ctx, setlist.ID)
}

func (a *setlistRepositoryAdapter) GetSetlist(ctx context.Context, id string) (application.Setlist, error) {
	record, err := a.setlists.GetSetlist(ctx, id)
	if err != nil {
		return application.Setlist{}, mapStorageError(err)
	}
	return toApplicationSetlist(record), nil
}

func (a *setlistRepositoryAdapter) UpdateSetlist(ctx context.Context, setlist application.Setlist) (application.Setlist, error) {
	if err := a.setlists.UpdateSetlist(ctx, toStorageSetlist(setlist)); err != nil {
		return application.Setlist{}, mapStorageError(err)
	}
	return a.GetSetlist(ctx, setlist.ID)
}

func (a *setlistRepositoryAdapter) DeleteSetlist(ctx context.Context, id string) error {
	return mapStorageError(a.setlists.DeleteSetlist(ctx, id))
}

func (a *setlistRepositoryAdapter) ListSetlists(ctx context.Context, bandID string) ([]application.Setlist, error) {
	records, err := a.setlists.ListSetlists(ctx, bandID)
	if err != nil {
		return nil, mapStorageError(err)
	}
	setlists := make([]application.Setlist, 0, len(records))
	for _, record := range records {
		setlists = append(setlists, toApplicationSetlist(record))
	}
	return setlists, nil
}

type rehearsalRepositoryAdapter struct {
	rehearsals *sqlite.RehearsalRepository
}

func (a *rehearsalRepositoryAdapter) CreateRehearsal(ctx context.Context, rehearsal application.Rehearsal) (application.Rehearsal, error) {
	if err := a.rehearsals.CreateRehearsal(ctx, toStorageRehearsal(rehearsal)); err != nil {
		return application.Rehearsal{}, mapStorageError(err)
	}
	return a.GetRehearsal(ctx, rehearsal.ID)
}

func (a *rehearsalRepositoryAdapter) GetRehearsal(ctx context.Context, id string) (application.Rehearsal, error) {
	record, err := a.rehearsals.GetRehearsal(ctx, id)
	if err != nil {
		return application.Rehearsal{}, mapStorageError(err)
	}
	return toApplicationRehearsal(record), nil
}

func (a *rehearsalRepositoryAdapter) UpdateRehearsal(ctx context.Context, rehearsal application.Rehearsal) (application.Rehearsal, error) {
	if err := a.rehearsals.UpdateRehearsal(ctx, toStorageRehearsal(rehearsal)); err != nil {
		return application.Rehearsal{}, mapStorageError(err)
	}
	return a.GetRehearsal(ctx, rehearsal.ID)
}

func (a *rehearsalRepositoryAdapter) DeleteRehearsal(ctx context.Context, id string) error {
	return mapStorageError(a.rehearsals.DeleteRehearsal(ctx, id))
}

func (a *rehearsalRepositoryAdapter) ListRehearsals(ctx context.Context, params application.ListRehearsalsParams) ([]application.Rehearsal, error) {
	records, err := a.rehearsals.ListRehearsals(ctx, persistence.RehearsalFilter{
		BandID:      params.BandID,
		StartsAfter: params.StartsAfter,
		EndsBefore:  params.EndsBefore,
	})
	if err != nil {
		return nil, mapStorageError(err)
	}
	rehearsals := make([]application.Rehearsal, 0, len(records))
	for _, record := range records {
		rehearsals = append(rehearsals, toApplicationRehearsal(record))
	}
	return rehearsals, nil
}

// ListRehearsalsBetween returns rehearsals across all bands that start
// within the given range. Reminder generation runs this once per tick.
func (a *rehearsalRepositoryAdapter) ListRehearsalsBetween(ctx context.Context, from, to time.Time) ([]application.Rehearsal, error) {
	records, err := a.rehearsals.ListRehearsals(ctx, persistence.RehearsalFilter{StartsAfter: &from})
	if err != nil {
		return nil, mapStorageError(err)
	}
	rehearsals := make([]application.Rehearsal, 0, len(records))
	for _, record := range records {
		if record.Start.After(to) {
			continue
		}
		rehearsals = append(rehearsals, toApplicationRehearsal(record))
	}
	return rehearsals, nil
}

type attendanceRepositoryAdapter struct {
	attendance *sqlite.AttendanceRepository
}

func (a *attendanceRepositoryAdapter) UpsertAttendance(ctx context.Context, attendance application.Attendance) (application.Attendance, error) {
	record, err := a.attendance.UpsertAttendance(ctx, toStorageAttendance(attendance))
	if err != nil {
		return application.Attendance{}, mapStorageError(err)
	}
	return toApplicationAttendance(record), nil
}

func (a *attendanceRepositoryAdapter) GetAttendance(ctx context.Context, rehearsalID, memberID string) (application.Attendance, error) {
	record, err := a.attendance.GetAttendance(ctx, rehearsalID, memberID)
	if err != nil {
		return application.Attendance{}, mapStorageError(err)
	}
	return toApplicationAttendance(record), nil
}

func (a *attendanceRepositoryAdapter) ListAttendance(ctx context.Context, rehearsalID string) ([]application.Attendance, error) {
	records, err := a.attendance.ListAttendance(ctx, rehearsalID)
	if err != nil {
		return nil, mapStorageError(err)
	}
	responses := make([]application.Attendance, 0, len(records))
	for _, record := range records {
		responses = append(responses, toApplicationAttendance(record))
	}
	return responses, nil
}

type availabilityRepositoryAdapter struct {
	windows *sqlite.AvailabilityRepository
}

func (a *availabilityRepositoryAdapter) CreateWindow(ctx context.Context, window application.AvailabilityWindow) (application.AvailabilityWindow, error) {
	if err := a.windows.CreateWindow(ctx, toStorageWindow(window)); err != nil {
		return application.AvailabilityWindow{}, mapStorageError(err)
	}
	return a.GetWindow(ctx, window.ID)
}

func (a *availabilityRepositoryAdapter) GetWindow(ctx context.Context, id string) (application.AvailabilityWindow, error) {
	record, err := a.windows.GetWindow(ctx, id)
	if err != nil {
		return application.AvailabilityWindow{}, mapStorageError(err)
	}
	return toApplicationWindow(record), nil
}

func (a *availabilityRepositoryAdapter) UpdateWindow(ctx context.Context, window application.AvailabilityWindow) (application.AvailabilityWindow, error) {
	if err := a.windows.UpdateWindow(ctx, toStorageWindow(window)); err != nil {
		return application.AvailabilityWindow{}, mapStorageError(err)
	}
	return a.GetWindow(ctx, window.ID)
}

func (a *availabilityRepositoryAdapter) DeleteWindow(ctx context.Context, id string) error {
	return mapStorageError(a.windows.DeleteWindow(ctx, id))
}

func (a *availabilityRepositoryAdapter) ListWindowsForUser(ctx context.Context, userID string) ([]application.AvailabilityWindow, error) {
	records, err := a.windows.ListWindowsForUser(ctx, userID)
	if err != nil {
		return nil, mapStorageError(err)
	}
	windows := make([]application.AvailabilityWindow, 0, len(records))
	for _, record := range records {
		windows = append(windows, toApplicationWindow(record))
	}
	return windows, nil
}

func (a *availabilityRepositoryAdapter) ListWindowsForUsers(ctx context.Context, userIDs []string) (map[string][]application.AvailabilityWindow, error) {
	grouped, err := a.windows.ListWindowsForUsers(ctx, userIDs)
	if err != nil {
		return nil, mapStorageError(err)
	}
	result := make(map[string][]application.AvailabilityWindow, len(grouped))
	for userID, records := range grouped {
		windows := make([]application.AvailabilityWindow, 0, len(records))
		for _, record := range records {
			windows = append(windows, toApplicationWindow(record))
		}
		result[userID] = windows
	}
	return result, nil
}

type notificationRepositoryAdapter struct {
	notifications *sqlite.NotificationRepository
}

func (a *notificationRepositoryAdapter) CreateNotification(ctx context.Context, notification application.Notification) (application.Notification, error) {
	if err := a.notifications.CreateNotification(ctx, toStorageNotification(notification)); err != nil {
		return application.Notification{}, mapStorageError(err)
	}
	return notification, nil
}

func (a *notificationRepositoryAdapter) ListNotificationsForUser(ctx context.Context, userID string) ([]application.Notification, error) {
	records, err := a.notifications.ListNotificationsForUser(ctx, userID)
	if err != nil {
		return nil, mapStorageError(err)
	}
	notifications := make([]application.Notification, 0, len(records))
	for _, record := range records {
		notifications = append(notifications, toApplicationNotification(record))
	}
	return notifications, nil
}

func (a *notificationRepositoryAdapter) MarkNotificationRead(ctx context.Context, id, userID string, readAt time.Time) (application.Notification, error) {
	if err := a.notifications.MarkNotificationRead(ctx, id, userID, readAt); err != nil {
		return application.Notification{}, mapStorageError(err)
	}

	records, err := a.notifications.ListNotificationsForUser(ctx, userID)
	if err != nil {
		return application.Notification{}, mapStorageError(err)
	}
	for _, record := range records {
		if record.ID == id {
			return toApplicationNotification(record), nil
		}
	}
	return application.Notification{}, application.ErrNotFound
}

func toApplicationUser(user persistence.User) application.User {
	return application.User{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PhoneNumber: user.PhoneNumber,
		IsAdmin:     user.IsAdmin,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

func toStorageUser(user application.User) persistence.User {
	return persistence.User{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PhoneNumber: user.PhoneNumber,
		IsAdmin:     user.IsAdmin,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

func toApplicationSession(session persistence.Session) application.Session {
	return application.Session{
		ID:        session.ID,
		UserID:    session.UserID,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
		RevokedAt: session.RevokedAt,
	}
}

func toStorageSession(session application.Session) persistence.Session {
	return persistence.Session{
		ID:        session.ID,
		UserID:    session.UserID,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
		RevokedAt: session.RevokedAt,
	}
}

func toApplicationBand(band persistence.Band) application.Band {
	return application.Band{
		ID:          band.ID,
		Name:        band.Name,
		Description: band.Description,
		Timezone:    band.Timezone,
		CreatorID:   band.CreatorID,
		CreatedAt:   band.CreatedAt,
		UpdatedAt:   band.UpdatedAt,
	}
}

func toStorageBand(band application.Band) persistence.Band {
	return persistence.Band{
		ID:          band.ID,
		Name:        band.Name,
		Description: band.Description,
		Timezone:    band.Timezone,
		CreatorID:   band.CreatorID,
		CreatedAt:   band.CreatedAt,
		UpdatedAt:   band.UpdatedAt,
	}
}

func toApplicationMember(member persistence.BandMember) application.BandMember {
	return application.BandMember{
		ID:       member.ID,
		BandID:   member.BandID,
		UserID:   member.UserID,
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
		LeftAt:   member.LeftAt,
	}
}

func toStorageMember(member application.BandMember) persistence.BandMember {
	return persistence.BandMember{
		ID:       member.ID,
		BandID:   member.BandID,
		UserID:   member.UserID,
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
		LeftAt:   member.LeftAt,
	}
}

func toApplicationSong(song persistence.Song) application.Song {
	return application.Song{
		ID:              song.ID,
		BandID:          song.BandID,
		CreatorID:       song.CreatorID,
		Title:           song.Title,
		Artist:          song.Artist,
		DurationSeconds: song.DurationSeconds,
		Key:             song.Key,
		BPM:             song.BPM,
		Notes:           song.Notes,
		CreatedAt:       song.CreatedAt,
		UpdatedAt:       song.UpdatedAt,
	}
}

func toStorageSong(song application.Song) persistence.Song {
	return persistence.Song{
		ID:              song.ID,
		BandID:          song.BandID,
		CreatorID:       song.CreatorID,
		Title:           song.Title,
		Artist:          song.Artist,
		DurationSeconds: song.DurationSeconds,
		Key:             song.Key,
		BPM:             song.BPM,
		Notes:           song.Notes,
		CreatedAt:       song.CreatedAt,
		UpdatedAt:       song.UpdatedAt,
	}
}

func toApplicationSetlist(setlist persistence.Setlist) application.Setlist {
	items := make([]application.SetlistItem, 0, len(setlist.Items))
	for _, item := range setlist.Items {
		items = append(items, application.SetlistItem{
			ID:        item.ID,
			SetlistID: item.SetlistID,
			SongID:    item.SongID,
			Position:  item.Position,
			Notes:     item.Notes,
		})
	}
	return application.Setlist{
		ID:        setlist.ID,
		BandID:    setlist.BandID,
		CreatorID: setlist.CreatorID,
		Name:      setlist.Name,
		Items:     items,
		CreatedAt: setlist.CreatedAt,
		UpdatedAt: setlist.UpdatedAt,
	}
}

func toStorageSetlist(setlist application.Setlist) persistence.Setlist {
	items := make([]persistence.SetlistItem, 0, len(setlist.Items))
	for _, item := range setlist.Items {
		items = append(items, persistence.SetlistItem{
			ID:        item.ID,
			SetlistID: item.SetlistID,
			SongID:    item.SongID,
			Position:  item.Position,
			Notes:     item.Notes,
		})
	}
	return persistence.Setlist{
		ID:        setlist.ID,
		BandID:    setlist.BandID,
		CreatorID: setlist.CreatorID,
		Name:      setlist.Name,
		Items:     items,
		CreatedAt: setlist.CreatedAt,
		UpdatedAt: setlist.UpdatedAt,
	}
}

func toApplicationRehearsal(rehearsal persistence.Rehearsal) application.Rehearsal {
	return application.Rehearsal{
		ID:          rehearsal.ID,
		BandID:      rehearsal.BandID,
		CreatorID:   rehearsal.CreatorID,
		Title:       rehearsal.Title,
		Description: rehearsal.Description,
		Location:    rehearsal.Location,
		Start:       rehearsal.Start,
		End:         rehearsal.End,
		SetlistID:   rehearsal.SetlistID,
		CreatedAt:   rehearsal.CreatedAt,
		UpdatedAt:   rehearsal.UpdatedAt,
	}
}

func toStorageRehearsal(rehearsal application.Rehearsal) persistence.Rehearsal {
	return persistence.Rehearsal{
		ID:          rehearsal.ID,
		BandID:      rehearsal.BandID,
		CreatorID:   rehearsal.CreatorID,
		Title:       rehearsal.Title,
		Description: rehearsal.Description,
		Location:    rehearsal.Location,
		Start:       rehearsal.Start,
		End:         rehearsal.End,
		SetlistID:   rehearsal.SetlistID,
		CreatedAt:   rehearsal.CreatedAt,
		UpdatedAt:   rehearsal.UpdatedAt,
	}
}

func toApplicationAttendance(attendance persistence.Attendance) application.Attendance {
	return application.Attendance{
		ID:          attendance.ID,
		RehearsalID: attendance.RehearsalID,
		MemberID:    attendance.MemberID,
		UserID:      attendance.UserID,
		Status:      attendance.Status,
		CreatedAt:   attendance.CreatedAt,
		UpdatedAt:   attendance.UpdatedAt,
	}
}

func toStorageAttendance(attendance application.Attendance) persistence.Attendance {
	return persistence.Attendance{
		ID:          attendance.ID,
		RehearsalID: attendance.RehearsalID,
		MemberID:    attendance.MemberID,
		UserID:      attendance.UserID,
		Status:      attendance.Status,
		CreatedAt:   attendance.CreatedAt,
		UpdatedAt:   attendance.UpdatedAt,
	}
}

func toApplicationWindow(window persistence.AvailabilityWindow) application.AvailabilityWindow {
	return application.AvailabilityWindow{
		ID:        window.ID,
		UserID:    window.UserID,
		Weekday:   window.Weekday,
		StartTime: window.StartTime,
		EndTime:   window.EndTime,
		Available: window.Available,
		CreatedAt: window.CreatedAt,
		UpdatedAt: window.UpdatedAt,
	}
}

func toStorageWindow(window application.AvailabilityWindow) persistence.AvailabilityWindow {
	return persistence.AvailabilityWindow{
		ID:        window.ID,
		UserID:    window.UserID,
		Weekday:   window.Weekday,
		StartTime: window.StartTime,
		EndTime:   window.EndTime,
		Available: window.Available,
		CreatedAt: window.CreatedAt,
		UpdatedAt: window.UpdatedAt,
	}
}

func toApplicationNotification(notification persistence.Notification) application.Notification {
	return application.Notification{
		ID:          notification.ID,
		UserID:      notification.UserID,
		RehearsalID: notification.RehearsalID,
		Kind:        notification.Kind,
		Message:     notification.Message,
		ReadAt:      notification.ReadAt,
		CreatedAt:   notification.CreatedAt,
	}
}

func toStorageNotification(notification application.Notification) persistence.Notification {
	return persistence.Notification{
		ID:          notification.ID,
		UserID:      notification.UserID,
		RehearsalID: notification.RehearsalID,
		Kind:        notification.Kind,
		Message:     notification.Message,
		ReadAt:      notification.ReadAt,
		CreatedAt:   notification.CreatedAt,
	}
}
