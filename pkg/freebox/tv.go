package freebox

import (
	"context"
	"strconv"
)

// TVChannel is an entry of tv/channels/, keyed by UUID.
type TVChannel struct {
	UUID      string `json:"uuid"`
	Name      string `json:"name"`
	ShortName string `json:"short_name,omitempty"`
	LogoURL   string `json:"logo_url"`
	Available bool   `json:"available"`
}

// TVBouquet groups channels.
type TVBouquet struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// PVRRecord is a programmed or finished recording.
type PVRRecord struct {
	ID             int    `json:"id,omitempty"`
	State          string `json:"state,omitempty"`
	Start          int64  `json:"start"`
	End            int64  `json:"end"`
	Name           string `json:"name"`
	SubName        string `json:"subname,omitempty"`
	ChannelUUID    string `json:"channel_uuid"`
	ChannelName    string `json:"channel_name,omitempty"`
	ChannelType    string `json:"channel_type,omitempty"`
	ChannelQuality string `json:"channel_quality,omitempty"`
	BroadcastType  string `json:"broadcast_type,omitempty"`
	Media          string `json:"media,omitempty"`
	Path           string `json:"path,omitempty"`
	Filename       string `json:"filename,omitempty"`
	MarginBefore   int    `json:"margin_before,omitempty"`
	MarginAfter    int    `json:"margin_after,omitempty"`
	HasRecordGen   bool   `json:"has_record_gen,omitempty"`
	RecordGenID    int    `json:"record_gen_id,omitempty"`
}

// DefaultBouquet is the bouquet of the Freebox TV offer.
const DefaultBouquet = "freeboxtv"

// TV wraps the tv/ and pvr/ endpoints.
type TV struct {
	access *Access
}

// GetStatus returns the TV service status.
func (t *TV) GetStatus(ctx context.Context) (Object, error) {
	var status Object
	err := t.access.Get(ctx, "tv/status/", &status)
	return status, err
}

// GetChannels returns every channel keyed by UUID.
func (t *TV) GetChannels(ctx context.Context) (map[string]TVChannel, error) {
	var channels map[string]TVChannel
	err := t.access.Get(ctx, "tv/channels/", &channels)
	return channels, err
}

// GetBouquets lists the bouquets.
func (t *TV) GetBouquets(ctx context.Context) ([]TVBouquet, error) {
	var bouquets []TVBouquet
	err := t.access.Get(ctx, "tv/bouquets/", &bouquets)
	return bouquets, err
}

// GetBouquetChannels lists the channels of a bouquet, e.g. DefaultBouquet.
func (t *TV) GetBouquetChannels(ctx context.Context, bouquetID string) ([]Object, error) {
	var channels []Object
	err := t.access.Get(ctx, "tv/bouquets/"+escape(bouquetID)+"/channels/", &channels)
	return channels, err
}

// GetMyCanalToken returns the myCANAL authentication token.
func (t *TV) GetMyCanalToken(ctx context.Context) (Object, error) {
	var token Object
	err := t.access.Get(ctx, "tv/mycanal_token", &token)
	return token, err
}

// GetProgram returns one EPG program.
func (t *TV) GetProgram(ctx context.Context, programID string) (Object, error) {
	var program Object
	err := t.access.Get(ctx, "tv/epg/programs/"+escape(programID), &program)
	return program, err
}

// GetHighlights returns the highlights of a channel around date (unix seconds).
func (t *TV) GetHighlights(ctx context.Context, channelID string, date int64) (Object, error) {
	var programs Object
	err := t.access.Get(ctx, "tv/epg/highlights/"+escape(channelID)+"/"+strconv.FormatInt(date, 10), &programs)
	return programs, err
}

// GetProgramsByChannel returns the programs of a channel around date.
func (t *TV) GetProgramsByChannel(ctx context.Context, channelID string, date int64) (Object, error) {
	var programs Object
	err := t.access.Get(ctx, "tv/epg/by_channel/"+escape(channelID)+"/"+strconv.FormatInt(date, 10), &programs)
	return programs, err
}

// GetProgramsByTime returns the programs of every channel around date.
func (t *TV) GetProgramsByTime(ctx context.Context, date int64) (Object, error) {
	var programs Object
	err := t.access.Get(ctx, "tv/epg/by_time/"+strconv.FormatInt(date, 10), &programs)
	return programs, err
}

// GetPVRConfig returns the recording configuration.
func (t *TV) GetPVRConfig(ctx context.Context) (Object, error) {
	var config Object
	err := t.access.Get(ctx, "pvr/config/", &config)
	return config, err
}

// SetPVRConfig updates the recording configuration.
func (t *TV) SetPVRConfig(ctx context.Context, config Object) (Object, error) {
	var updated Object
	err := t.access.Put(ctx, "pvr/config/", config, &updated)
	return updated, err
}

// GetPVRMedia lists the storages usable for recordings.
func (t *TV) GetPVRMedia(ctx context.Context) ([]Object, error) {
	var media []Object
	err := t.access.Get(ctx, "pvr/media/", &media)
	return media, err
}

// GetProgrammedRecords lists the scheduled recordings.
func (t *TV) GetProgrammedRecords(ctx context.Context) ([]PVRRecord, error) {
	var records []PVRRecord
	err := t.access.Get(ctx, "pvr/programmed/", &records)
	return records, err
}

// GetProgrammedRecord returns one scheduled recording.
func (t *TV) GetProgrammedRecord(ctx context.Context, id int) (*PVRRecord, error) {
	var record PVRRecord
	if err := t.access.Get(ctx, "pvr/programmed/"+itoa(id), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// CreateProgrammedRecord schedules a recording.
func (t *TV) CreateProgrammedRecord(ctx context.Context, record PVRRecord) (*PVRRecord, error) {
	var created PVRRecord
	if err := t.access.Post(ctx, "pvr/programmed/", record, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProgrammedRecord changes a scheduled recording.
func (t *TV) UpdateProgrammedRecord(ctx context.Context, id int, update Object) (*PVRRecord, error) {
	var updated PVRRecord
	if err := t.access.Put(ctx, "pvr/programmed/"+itoa(id), update, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProgrammedRecord cancels a scheduled recording.
func (t *TV) DeleteProgrammedRecord(ctx context.Context, id int) error {
	return t.access.Delete(ctx, "pvr/programmed/"+itoa(id), nil, nil)
}

// ArchiveProgrammedRecord acknowledges a failed recording.
func (t *TV) ArchiveProgrammedRecord(ctx context.Context, id int) error {
	return t.access.Post(ctx, "pvr/programmed/"+itoa(id)+"/ack/", nil, nil)
}

// GetFinishedRecords lists the finished recordings.
func (t *TV) GetFinishedRecords(ctx context.Context) ([]PVRRecord, error) {
	var records []PVRRecord
	err := t.access.Get(ctx, "pvr/finished/", &records)
	return records, err
}

// GetFinishedRecord returns one finished recording.
func (t *TV) GetFinishedRecord(ctx context.Context, id int) (*PVRRecord, error) {
	var record PVRRecord
	if err := t.access.Get(ctx, "pvr/finished/"+itoa(id), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateFinishedRecord renames a finished recording.
func (t *TV) UpdateFinishedRecord(ctx context.Context, id int, update Object) (*PVRRecord, error) {
	var updated PVRRecord
	if err := t.access.Put(ctx, "pvr/finished/"+itoa(id), update, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteFinishedRecord removes a finished recording and its file.
func (t *TV) DeleteFinishedRecord(ctx context.Context, id int) error {
	return t.access.Delete(ctx, "pvr/finished/"+itoa(id), nil, nil)
}

// GetRecordGenerators lists the recurring recording rules.
func (t *TV) GetRecordGenerators(ctx context.Context) ([]Object, error) {
	var generators []Object
	err := t.access.Get(ctx, "pvr/generator/", &generators)
	return generators, err
}

// GetRecordGenerator returns one recurring recording rule.
func (t *TV) GetRecordGenerator(ctx context.Context, id int) (Object, error) {
	var generator Object
	err := t.access.Get(ctx, "pvr/generator/"+itoa(id), &generator)
	return generator, err
}

// CreateRecordGenerator adds a recurring recording rule.
func (t *TV) CreateRecordGenerator(ctx context.Context, generator Object) (Object, error) {
	var created Object
	err := t.access.Post(ctx, "pvr/generator/", generator, &created)
	return created, err
}

// UpdateRecordGenerator changes a recurring recording rule.
func (t *TV) UpdateRecordGenerator(ctx context.Context, id int, generator Object) (Object, error) {
	var updated Object
	err := t.access.Put(ctx, "pvr/generator/"+itoa(id), generator, &updated)
	return updated, err
}

// DeleteRecordGenerator removes a recurring recording rule.
func (t *TV) DeleteRecordGenerator(ctx context.Context, id int) error {
	return t.access.Delete(ctx, "pvr/generator/"+itoa(id), nil, nil)
}
