// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package verify checks that every ARN in a layer table resolves to a
// published layer version by calling Lambda's GetLayerVersionByArn in the
// entry's own region.
package verify
