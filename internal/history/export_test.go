package history

import (
	"context"
	"fmt"
)

// SetSchemaVersionForTest overwrites the stamped schema version.
func SetSchemaVersionForTest(s *Store, version int) error {
	_, err := s.db.ExecContext(context.Background(), fmt.Sprintf("PRAGMA user_version = %d", version))
	return err
}

// BlockFingerprintDeletesForTest installs a trigger that aborts any delete on
// the fingerprints table.
func BlockFingerprintDeletesForTest(s *Store) error {
	_, err := s.db.ExecContext(context.Background(), `CREATE TRIGGER block_fingerprint_delete
BEFORE DELETE ON fingerprints
BEGIN
	SELECT RAISE(ABORT, 'fingerprints are pinned');
END`)
	return err
}
