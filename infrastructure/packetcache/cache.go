package packetcache

import (
	"bytes"
	"fmt"
	"os"

	"livetiming/application"
	domaincache "livetiming/domain/cache"
	"livetiming/domain/packet"
)

// chunkEntry is one in-memory page of ChunkSize packets, grounded on
// packetcache.c's ChunkHolder (ref-counted, reusable once unreferenced).
type chunkEntry struct {
	packets [ChunkSize]packet.Packet
}

type fileCache struct {
	file   *os.File
	replay bool

	chunks    map[int]*chunkEntry
	lru       []int // chunk indices eligible for eviction, oldest first
	pushChunk int    // chunk index currently being written; never evicted

	pushGlobal  int // next push position, in packets
	savedGlobal int // durable-write cursor, in packets
}

// New opens or creates the cache file at path. replay selects read-only
// mode (signature match required, push cursor irrelevant); live mode
// creates the file with a fresh signature if absent, or verifies the
// existing one and resumes past the last complete record.
func New(path string, replay bool) (application.PacketCache, error) {
	flag := os.O_RDWR | os.O_CREATE
	if replay {
		flag = os.O_RDONLY
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domaincache.ErrFile, path, err)
	}

	c := &fileCache{
		file:   f,
		replay: replay,
		chunks: make(map[int]*chunkEntry),
	}

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %v", domaincache.ErrFile, path, err)
	}

	if info.Size() == 0 {
		if replay {
			return nil, fmt.Errorf("%w: empty cache file opened for replay", domaincache.ErrVersion)
		}
		if _, err := f.WriteAt(signatureBlock(), 0); err != nil {
			return nil, fmt.Errorf("%w: write signature: %v", domaincache.ErrFile, err)
		}
		return c, nil
	}

	sig := make([]byte, RecordSize)
	if _, err := f.ReadAt(sig, 0); err != nil {
		return nil, fmt.Errorf("%w: read signature: %v", domaincache.ErrFile, err)
	}
	want := signatureBlock()
	if !bytes.Equal(sig, want) {
		return nil, fmt.Errorf("%w: signature mismatch in %s", domaincache.ErrVersion, path)
	}

	n := (info.Size() - RecordSize) / RecordSize
	c.pushGlobal = int(n)
	c.savedGlobal = int(n)
	c.pushChunk = c.pushGlobal / ChunkSize
	return c, nil
}

func (c *fileCache) Push(p *packet.Packet) error {
	if c.replay {
		return fmt.Errorf("%w: push on a replay-mode cache", domaincache.ErrHandle)
	}
	padded := *p
	if padded.Len >= 0 && padded.Len < packet.PayloadCap {
		for i := padded.Len; i < packet.PayloadCap; i++ {
			padded.Payload[i] = 0
		}
	}

	ci := c.pushGlobal / ChunkSize
	pos := c.pushGlobal % ChunkSize
	entry := c.ensureChunk(ci)
	entry.packets[pos] = padded
	c.pushChunk = ci
	c.pushGlobal++
	return nil
}

func (c *fileCache) Get(iter domaincache.Iterator) (packet.Packet, bool, error) {
	gi := iter.Index*ChunkSize + iter.Pos
	if gi < 0 || gi >= c.pushGlobal {
		return packet.Packet{}, false, nil
	}
	entry, err := c.loadChunk(iter.Index)
	if err != nil {
		return packet.Packet{}, false, err
	}
	return entry.packets[iter.Pos], true, nil
}

func (c *fileCache) Advance(iter *domaincache.Iterator) error {
	iter.Pos++
	if iter.Pos >= ChunkSize {
		iter.Pos = 0
		iter.Index++
	}
	return nil
}

func (c *fileCache) ToStart(iter *domaincache.Iterator) {
	iter.Index, iter.Pos = 0, 0
}

func (c *fileCache) ToEnd(iter *domaincache.Iterator) {
	iter.Index = c.pushGlobal / ChunkSize
	iter.Pos = c.pushGlobal % ChunkSize
}

// Write overwrites a packet already durable or currently open; the only
// sanctioned caller is the Reader committing the USER_SYS_KEY slot
// (spec.md §4.4 invariant 5).
func (c *fileCache) Write(iter domaincache.Iterator, p *packet.Packet) error {
	gi := iter.Index*ChunkSize + iter.Pos
	if gi < 0 || gi >= c.pushGlobal {
		return fmt.Errorf("%w: write past push cursor", domaincache.ErrHandle)
	}
	entry, err := c.loadChunk(iter.Index)
	if err != nil {
		return err
	}
	entry.packets[iter.Pos] = *p

	if gi < c.savedGlobal {
		buf := make([]byte, RecordSize)
		encodeRecord(p, buf)
		if _, err := c.file.WriteAt(buf, int64(gi+1)*RecordSize); err != nil {
			return fmt.Errorf("%w: in-place write: %v", domaincache.ErrFile, err)
		}
	}
	return nil
}

func (c *fileCache) SaveUnsaved() error {
	if c.replay {
		return nil
	}
	for gi := c.savedGlobal; gi < c.pushGlobal; gi++ {
		ci, pos := gi/ChunkSize, gi%ChunkSize
		entry, err := c.loadChunk(ci)
		if err != nil {
			return err
		}
		buf := make([]byte, RecordSize)
		encodeRecord(&entry.packets[pos], buf)
		if _, err := c.file.WriteAt(buf, int64(gi+1)*RecordSize); err != nil {
			return fmt.Errorf("%w: flush: %v", domaincache.ErrFile, err)
		}
	}
	c.savedGlobal = c.pushGlobal
	return c.file.Sync()
}

func (c *fileCache) Close() error {
	return c.file.Close()
}

// ensureChunk returns the in-memory chunk at index, creating an empty
// one if index is the (or a new) push chunk.
func (c *fileCache) ensureChunk(index int) *chunkEntry {
	if e, ok := c.chunks[index]; ok {
		return e
	}
	e := &chunkEntry{}
	c.chunks[index] = e
	c.touch(index)
	c.evictIfNeeded()
	return e
}

// loadChunk returns the in-memory chunk at index, paging it in from the
// backing file if it holds only durable packets not yet resident
// (packetcache.c's lazy chunk paging).
func (c *fileCache) loadChunk(index int) (*chunkEntry, error) {
	if e, ok := c.chunks[index]; ok {
		c.touch(index)
		return e, nil
	}
	e := &chunkEntry{}
	base := index * ChunkSize
	for i := 0; i < ChunkSize; i++ {
		gi := base + i
		if gi >= c.savedGlobal {
			break
		}
		buf := make([]byte, RecordSize)
		if _, err := c.file.ReadAt(buf, int64(gi+1)*RecordSize); err != nil {
			return nil, fmt.Errorf("%w: read chunk %d: %v", domaincache.ErrFile, index, err)
		}
		e.packets[i] = decodeRecord(buf)
	}
	c.chunks[index] = e
	c.touch(index)
	c.evictIfNeeded()
	return e, nil
}

func (c *fileCache) touch(index int) {
	for i, v := range c.lru {
		if v == index {
			c.lru = append(c.lru[:i], c.lru[i+1:]...)
			break
		}
	}
	c.lru = append(c.lru, index)
}

// evictIfNeeded drops the least-recently-touched chunks once more than
// MinUnusedChunks are resident besides the active push chunk
// (packetcache.c's min_chunks_cache_size threshold).
func (c *fileCache) evictIfNeeded() {
	limit := MinUnusedChunks
	if _, ok := c.chunks[c.pushChunk]; ok {
		limit++
	}
	for len(c.lru) > limit {
		victim := c.lru[0]
		if victim == c.pushChunk {
			// never evict the chunk still being written
			if len(c.lru) == 1 {
				return
			}
			c.lru = append(c.lru[1:], victim)
			continue
		}
		c.lru = c.lru[1:]
		delete(c.chunks, victim)
	}
}
