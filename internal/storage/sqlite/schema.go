package sqlite

const schema = `
-- Corpus documents
CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    content TEXT NOT NULL DEFAULT '',
    source TEXT NOT NULL DEFAULT '',
    metadata TEXT NOT NULL DEFAULT '{}',
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at);
CREATE INDEX IF NOT EXISTS idx_documents_source ON documents(source);

-- Batch deduplication run reports
CREATE TABLE IF NOT EXISTS dedup_runs (
    id TEXT PRIMARY KEY,
    threshold REAL NOT NULL CHECK(threshold > 0 AND threshold <= 1),
    total INTEGER NOT NULL DEFAULT 0,
    unique_count INTEGER NOT NULL DEFAULT 0,
    duplicate_count INTEGER NOT NULL DEFAULT 0,
    near_duplicate_count INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_dedup_runs_created_at ON dedup_runs(created_at);

-- Non-leader members of each run's duplicate groups
CREATE TABLE IF NOT EXISTS duplicate_groups (
    run_id TEXT NOT NULL,
    leader_id TEXT NOT NULL,
    member_id TEXT NOT NULL,
    similarity REAL NOT NULL,
    PRIMARY KEY (run_id, leader_id, member_id),
    FOREIGN KEY (run_id) REFERENCES dedup_runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_duplicate_groups_run ON duplicate_groups(run_id);
CREATE INDEX IF NOT EXISTS idx_duplicate_groups_leader ON duplicate_groups(leader_id);
`
