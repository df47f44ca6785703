/*
The sync package implements foldersync's reconciliation algorithm. It makes a
replica directory match a source directory, one round at a time.

Each round:
1) Snapshots both directories. Only the immediate entries are listed; the sync
   never recurses.
2) Plans the round. Source files that are missing from the replica, or whose
   contents differ, are copied. Replica files that don't exist in the source
   are removed.
3) Applies the plan. A failed copy or removal is logged and skipped. It will
   be retried by the next round if it still applies.

The source always wins: the replica is never read to decide what the source
should contain.

Only files are synced. A symlink to a regular file counts as a file: its
target's contents are copied, and a replica symlink that isn't in the source
is removed like any other file. Subdirectories, dangling symlinks, and other
special entries are never copied, so a replica subdirectory is left alone and
a source subdirectory is never created in the replica. Verify still reports
them, since the directories only match once they hold the same entries.
*/
package sync
