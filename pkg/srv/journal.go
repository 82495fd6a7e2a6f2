/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package srv

import (
	"fmt"
	"time"

	"github.com/rs/xid"
	"go.etcd.io/bbolt"
	"sigs.k8s.io/yaml"

	"jinr.ru/greenlab/go-pim/pkg/event"
	"jinr.ru/greenlab/go-pim/pkg/log"
)

const (
	KindPort   = "port"
	KindModule = "module"

	BucketNamePrefix = "events_"
)

// Record is one reported change set
type Record struct {
	ID      string          `json:"id"`
	Kind    string          `json:"kind"`
	Time    time.Time       `json:"time"`
	Changes event.ChangeSet `json:"changes"`
}

// Journal keeps reported change sets in a bolt database, one bucket per
// kind. Keys are xids so cursor order is report order.
type Journal struct {
	DB *bbolt.DB
}

func bucketName(kind string) string {
	return fmt.Sprintf("%s%s", BucketNamePrefix, kind)
}

func checkKind(kind string) error {
	if kind != KindPort && kind != KindModule {
		return ErrUnknownKind{Kind: kind}
	}
	return nil
}

func NewJournal(path string) (*Journal, error) {
	log.Debug("Opening event journal: %s", path)
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	if err = db.Update(func(tx *bbolt.Tx) error {
		for _, kind := range []string{KindPort, KindModule} {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucketName(kind))); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &Journal{DB: db}, nil
}

func (j *Journal) Close() error {
	return j.DB.Close()
}

// Append stores the change set and returns the stored record
func (j *Journal) Append(kind string, changes event.ChangeSet) (*Record, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	id := xid.New()
	rec := &Record{
		ID:      id.String(),
		Kind:    kind,
		Time:    time.Now().UTC(),
		Changes: changes,
	}
	data, err := yaml.Marshal(rec)
	if err != nil {
		return nil, err
	}
	if err := j.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName(kind)))
		if b == nil {
			return ErrBucketNotFound{Bucket: bucketName(kind)}
		}
		return b.Put(id.Bytes(), data)
	}); err != nil {
		return nil, err
	}
	log.Debug("Journaled %s event %s: %s", kind, rec.ID, changes)
	return rec, nil
}

// History returns up to limit records of the kind, newest first.
// A non-positive limit returns every record.
func (j *Journal) History(kind string, limit int) ([]*Record, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	records := []*Record{}
	if err := j.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName(kind)))
		if b == nil {
			return ErrBucketNotFound{Bucket: bucketName(kind)}
		}
		c := b.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(records) >= limit {
				break
			}
			rec := &Record{}
			if err := yaml.Unmarshal(v, rec); err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return records, nil
}
