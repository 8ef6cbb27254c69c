/*
 * Copyright 2025 Lexica Analytics
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package local

import (
	"container/list"
	"sync"

	"github.com/lexica-nlp/entity-recognition/lib/cache"
)

// New returns an in-process cache bounded to capacity entries, evicting
// the least recently used entry on overflow. Both Get and Set refresh
// recency. Safe for concurrent use.
func New(capacity int) cache.Client {
	return &lru{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

type lru struct {
	mut      sync.Mutex
	capacity int
	order    *list.List
	items    map[string]*list.Element
}

type lruEntry struct {
	key   string
	value []byte
}

func (l *lru) Get(key string) ([]byte, bool) {
	l.mut.Lock()
	defer l.mut.Unlock()

	elem, ok := l.items[key]
	if !ok {
		return nil, false
	}
	l.order.MoveToFront(elem)
	return elem.Value.(*lruEntry).value, true
}

func (l *lru) Set(key string, value []byte) {
	l.mut.Lock()
	defer l.mut.Unlock()

	if elem, ok := l.items[key]; ok {
		elem.Value.(*lruEntry).value = value
		l.order.MoveToFront(elem)
		return
	}

	l.items[key] = l.order.PushFront(&lruEntry{key: key, value: value})
	if l.capacity > 0 && l.order.Len() > l.capacity {
		oldest := l.order.Back()
		l.order.Remove(oldest)
		delete(l.items, oldest.Value.(*lruEntry).key)
	}
}
