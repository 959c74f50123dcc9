package freebox

import "context"

// StorageDisk is a disk known to the Freebox.
type StorageDisk struct {
	ID         int                `json:"id"`
	Type       string             `json:"type"`
	TotalBytes int64              `json:"total_bytes"`
	State      string             `json:"state"`
	Model      string             `json:"model"`
	Serial     string             `json:"serial"`
	Temp       int                `json:"temp"`
	Spinning   bool               `json:"spinning"`
	Partitions []StoragePartition `json:"partitions"`
}

// StoragePartition is a partition of a disk.
type StoragePartition struct {
	ID         int    `json:"id"`
	DiskID     int    `json:"disk_id"`
	State      string `json:"state"`
	FsType     string `json:"fstype"`
	Label      string `json:"label"`
	Path       string `json:"path"`
	TotalBytes int64  `json:"total_bytes"`
	UsedBytes  int64  `json:"used_bytes"`
	FreeBytes  int64  `json:"free_bytes"`
}

// Storage wraps the storage/ endpoints.
type Storage struct {
	access *Access
}

// GetConfig returns the storage configuration.
func (s *Storage) GetConfig(ctx context.Context) (Object, error) {
	var config Object
	err := s.access.Get(ctx, "storage/config/", &config)
	return config, err
}

// SetConfig updates the storage configuration.
func (s *Storage) SetConfig(ctx context.Context, config Object) (Object, error) {
	var updated Object
	err := s.access.Put(ctx, "storage/config/", config, &updated)
	return updated, err
}

// GetDisks lists the disks.
func (s *Storage) GetDisks(ctx context.Context) ([]StorageDisk, error) {
	var disks []StorageDisk
	err := s.access.Get(ctx, "storage/disk/", &disks)
	return disks, err
}

// GetDisk returns one disk.
func (s *Storage) GetDisk(ctx context.Context, id int) (*StorageDisk, error) {
	var disk StorageDisk
	if err := s.access.Get(ctx, "storage/disk/"+itoa(id), &disk); err != nil {
		return nil, err
	}
	return &disk, nil
}

// UpdateDisk changes a disk, e.g. {"state": "disabled"} to eject it.
func (s *Storage) UpdateDisk(ctx context.Context, id int, update Object) (*StorageDisk, error) {
	var disk StorageDisk
	if err := s.access.Put(ctx, "storage/disk/"+itoa(id), update, &disk); err != nil {
		return nil, err
	}
	return &disk, nil
}

// GetPartitions lists the partitions.
func (s *Storage) GetPartitions(ctx context.Context) ([]StoragePartition, error) {
	var partitions []StoragePartition
	err := s.access.Get(ctx, "storage/partition/", &partitions)
	return partitions, err
}

// GetPartition returns one partition.
func (s *Storage) GetPartition(ctx context.Context, id int) (*StoragePartition, error) {
	var partition StoragePartition
	if err := s.access.Get(ctx, "storage/partition/"+itoa(id), &partition); err != nil {
		return nil, err
	}
	return &partition, nil
}

// CheckPartition starts a filesystem check.
func (s *Storage) CheckPartition(ctx context.Context, id int, checkMode string) error {
	return s.access.Put(ctx, "storage/partition/"+itoa(id)+"/check", Object{"checkmode": checkMode}, nil)
}

// FormatPartition formats a partition. This erases its content.
func (s *Storage) FormatPartition(ctx context.Context, id int, request Object) error {
	return s.access.Put(ctx, "storage/partition/"+itoa(id)+"/format", request, nil)
}

// GetRaids lists the RAID arrays.
func (s *Storage) GetRaids(ctx context.Context) ([]Object, error) {
	var raids []Object
	err := s.access.Get(ctx, "storage/raid/", &raids)
	return raids, err
}

// GetRaid returns one RAID array.
func (s *Storage) GetRaid(ctx context.Context, id int) (Object, error) {
	var raid Object
	err := s.access.Get(ctx, "storage/raid/"+itoa(id), &raid)
	return raid, err
}
